package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/vogiaan1904/ticketbottle-seating/internal/delivery/command"
	"github.com/vogiaan1904/ticketbottle-seating/internal/service"
	pkgGrpc "github.com/vogiaan1904/ticketbottle-seating/pkg/grpc"
	pkgLog "github.com/vogiaan1904/ticketbottle-seating/pkg/logger"
)

var (
	remote   = flag.String("remote", "", "Address of a running seating server (host:port); runs locally when empty")
	logLevel = flag.String("log-level", "error", "Log level for the local controller")
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [-remote host:port] <input_file>\n", filepath.Base(os.Args[0]))
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(1)
	}

	if err := run(context.Background(), flag.Arg(0)); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, inPath string) error {
	in, err := os.Open(inPath)
	if err != nil {
		return fmt.Errorf("failed to open input: %w", err)
	}
	defer in.Close()

	outPath := outputPath(inPath)
	out, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("failed to create output: %w", err)
	}
	defer out.Close()

	var ex command.Executor
	if *remote != "" {
		cli, closeFn, err := pkgGrpc.NewSeatingClient(*remote)
		if err != nil {
			return err
		}
		defer closeFn()
		ex = &remoteExecutor{cli: cli}
	} else {
		l := pkgLog.InitializeZapLogger(pkgLog.ZapConfig{
			Level:    *logLevel,
			Mode:     "development",
			Encoding: "console",
		})
		defer l.Sync()
		ex = command.NewExecutor(service.NewReservationService(nil, l), l)
	}

	if err := command.Run(ctx, ex, in, out); err != nil {
		return err
	}

	fmt.Printf("Output written to %s\n", outPath)
	return nil
}

// outputPath maps dir/name.ext to dir/name_output_file.txt.
func outputPath(inPath string) string {
	base := strings.TrimSuffix(inPath, filepath.Ext(inPath))
	return base + "_output_file.txt"
}

// remoteExecutor forwards each line to the server. Quit is recognised
// locally so the input stops at the same point as a local run.
type remoteExecutor struct {
	cli pkgGrpc.SeatingClient
}

func (e *remoteExecutor) Execute(ctx context.Context, line string) command.Result {
	lines, err := e.cli.Execute(ctx, line)
	if err != nil {
		lines = []string{fmt.Sprintf("Error: %v", err)}
	}

	res := command.Result{Lines: lines}
	if cmd, err := command.Parse(line); err == nil {
		res.Command = cmd.Name
		res.Quit = cmd.Name == command.Quit
	}
	return res
}
