// blackletter is a chess engine speaking a line-oriented text protocol over stdin/stdout.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/blackletter-chess/blackletter/pkg/engine"
	"github.com/blackletter-chess/blackletter/pkg/textproto"
)

var (
	depth = flag.Uint("depth", 0, "Default search depth limit (zero means no limit)")
	hash  = flag.Uint("hash", 64, "Transposition table size in MB")
	noise = flag.Uint("noise", 10, "Evaluation noise in centipawns (zero if deterministic)")
)

func init() {
	flag.Usage = func() {
		fmt.Fprint(os.Stderr, `usage: blackletter [options]

blackletter is a chess engine reachable over a line protocol on stdin/stdout.
Options:
`)
		flag.PrintDefaults()
	}
}

func main() {
	flag.Parse()
	ctx := context.Background()

	e := engine.New(ctx, "blackletter", "blackletter", engine.WithOptions(engine.Options{
		Depth: *depth,
		Hash:  *hash,
		Noise: *noise,
	}))

	in := engine.ReadStdinLines(ctx)
	driver, out := textproto.NewDriver(ctx, e, in)
	go engine.WriteStdoutLines(ctx, out)

	<-driver.Closed()
}
