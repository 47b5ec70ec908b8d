// Command neo4jclient is a demo workload that drives boltclient against a
// Neo4j instance — directly, or through bolt-tap so its activity shows up
// in the inspector.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync"
	"time"

	"github.com/sorablue/boltwire/boltclient"
	"github.com/sorablue/boltwire/message"
	"github.com/sorablue/boltwire/packstream"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func addr() string {
	if v := os.Getenv("BOLT_ADDR"); v != "" {
		return v
	}
	return "localhost:7687"
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	target := addr()
	c, err := boltclient.New(ctx, target, "")
	if err != nil {
		return fmt.Errorf("dial %s: %w", target, err)
	}
	defer c.Close()

	if err := c.Handshake([4]uint32{4, 3, 2, 1}); err != nil {
		return fmt.Errorf("handshake: %w", err)
	}
	fmt.Printf("connected to %s, negotiated Bolt v%d\n", target, c.Version())

	hello, err := c.Hello(map[string]packstream.Value{
		"user_agent": packstream.NewString("boltwire-example/1.0"),
		"scheme":     packstream.NewString("none"),
	})
	if err != nil || hello.Signature != message.SigSuccess {
		return fmt.Errorf("hello: %w (signature 0x%02X)", err, hello.Signature)
	}

	ticker := time.NewTicker(3 * time.Second)
	defer ticker.Stop()

	for i := 1; ; i++ {
		doMerge(c, i)
		doTransaction(c, i)
		doRollback(c, i)
		doConcurrentReads(ctx, i)

		if i%3 == 0 {
			doNPlus1(c, i)
		}

		select {
		case <-ctx.Done():
			fmt.Println("shutting down")
			_, _ = c.Goodbye()
			return nil
		case <-ticker.C:
		}
	}
}

func doMerge(c *boltclient.Client, i int) {
	name := fmt.Sprintf("user-%d", i)
	_, err := c.RunWithMetadata(
		"MERGE (u:User {name: $name}) RETURN u",
		map[string]packstream.Value{"name": packstream.NewString(name)},
		nil,
	)
	if err != nil {
		log.Printf("merge: %v", err)
		return
	}
	if _, err := c.PullAll(); err != nil {
		log.Printf("merge pull: %v", err)
		return
	}
	fmt.Printf("[%d] merged %s\n", i, name)
}

func doTransaction(c *boltclient.Client, i int) {
	if _, err := c.Begin(nil); err != nil {
		log.Printf("begin: %v", err)
		return
	}

	name := fmt.Sprintf("tx-user-%d", i)
	if _, err := c.RunWithMetadata(
		"MERGE (u:User {name: $name}) SET u.updatedAt = timestamp() RETURN u",
		map[string]packstream.Value{"name": packstream.NewString(name)}, nil,
	); err != nil {
		log.Printf("tx run: %v", err)
		return
	}
	if _, err := c.PullAll(); err != nil {
		log.Printf("tx pull: %v", err)
		return
	}

	if _, err := c.Commit(); err != nil {
		log.Printf("tx commit: %v", err)
		return
	}
	fmt.Printf("[%d] tx committed %s\n", i, name)
}

func doRollback(c *boltclient.Client, i int) {
	if _, err := c.Begin(nil); err != nil {
		log.Printf("rollback begin: %v", err)
		return
	}

	name := fmt.Sprintf("rollback-user-%d", i)
	if _, err := c.RunWithMetadata(
		"CREATE (u:User {name: $name}) RETURN u",
		map[string]packstream.Value{"name": packstream.NewString(name)}, nil,
	); err != nil {
		log.Printf("rollback run: %v", err)
		_, _ = c.Rollback()
		return
	}
	if _, err := c.PullAll(); err != nil {
		log.Printf("rollback pull: %v", err)
		return
	}

	if _, err := c.Rollback(); err != nil {
		log.Printf("rollback: %v", err)
		return
	}
	fmt.Printf("[%d] rolled back %s\n", i, name)
}

// doConcurrentReads opens separate connections since a Client is not safe
// for concurrent use.
func doConcurrentReads(ctx context.Context, i int) {
	var wg sync.WaitGroup
	for g := range 3 {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			c, err := boltclient.New(ctx, addr(), "")
			if err != nil {
				return
			}
			defer c.Close()
			if err := c.Handshake([4]uint32{4, 3, 2, 1}); err != nil {
				return
			}
			if _, err := c.Hello(map[string]packstream.Value{
				"user_agent": packstream.NewString("boltwire-example/1.0"),
				"scheme":     packstream.NewString("none"),
			}); err != nil {
				return
			}
			name := fmt.Sprintf("concurrent-%d-%d", i, g)
			if _, err := c.RunWithMetadata(
				"MERGE (u:User {name: $name}) RETURN u",
				map[string]packstream.Value{"name": packstream.NewString(name)}, nil,
			); err != nil {
				return
			}
			_, _ = c.PullAll()
		}(g)
	}
	wg.Wait()
}

// doNPlus1 simulates the N+1 pattern: ten individual lookups that should
// have been a single query with an IN list.
func doNPlus1(c *boltclient.Client, i int) {
	for j := range 10 {
		id := (i+j)%100 + 1
		if _, err := c.RunWithMetadata(
			"MATCH (u:User) WHERE id(u) = $id RETURN u.name",
			map[string]packstream.Value{"id": packstream.NewInt(int64(id))}, nil,
		); err != nil {
			continue
		}
		_, _ = c.PullAll()
	}
	fmt.Printf("[%d] N+1 simulation done (10 individual MATCHes)\n", i)
}
