package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/seu-repo/sms-assistant/internal/app"
	"github.com/seu-repo/sms-assistant/pkg/config"
)

var (
	userID  = flag.String("user", "console", "User id the messages are sent as")
	memory  = flag.Bool("memory", true, "Keep shifts and movie history in memory")
	verbose = flag.Bool("verbose", false, "Enable verbose logging")
)

func main() {
	flag.Parse()

	var logger *zap.Logger
	var err error
	if *verbose {
		logger, err = zap.NewDevelopment()
	} else {
		logger = zap.NewNop()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	cfg.Store.Memory = cfg.Store.Memory || *memory
	cfg.Database.URL = ""
	cfg.Queue.Driver = "local"

	assistant, err := app.Build(context.Background(), cfg, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to start assistant: %v\n", err)
		os.Exit(1)
	}
	defer assistant.Close()

	fmt.Println("SMS Assistant - Console")
	fmt.Println("=======================")
	fmt.Println("Type a message and press enter. 'quit' exits.")
	fmt.Println("")

	run(context.Background(), assistant, os.Stdin, os.Stdout)
}

// run answers one message per input line until quit or end of input.
func run(ctx context.Context, assistant *app.App, in io.Reader, out io.Writer) {
	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			return
		}
		text := strings.TrimSpace(scanner.Text())
		switch text {
		case "":
			continue
		case "quit", "exit":
			return
		}

		resp := assistant.Dispatcher.Process(ctx, text, *userID)
		fmt.Fprintf(out, "[%s] %s\n\n", resp.Domain, resp.DisplayText)
	}
}
