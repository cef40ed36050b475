package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/hanneskern95-jpg/AI-assistant/pkg/logger"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Chat with the assistant on the terminal",
	RunE: func(cmd *cobra.Command, args []string) error {
		container, _, err := bootstrap()
		if err != nil {
			return err
		}
		defer logger.Sync()

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		sess := container.Session()
		fmt.Println("Type a message, or /quit to exit.")

		scanner := bufio.NewScanner(os.Stdin)
		for {
			active := sess.Active()
			fmt.Printf("[%s] > ", active.Name())
			if !scanner.Scan() {
				break
			}
			line := strings.TrimSpace(scanner.Text())
			if line == "" {
				continue
			}
			if line == "/quit" || line == "/exit" {
				break
			}

			result, err := active.Submit(ctx, line)
			if err != nil {
				fmt.Printf("error: %v\n", err)
				if ctx.Err() != nil {
					break
				}
				continue
			}

			if result.Result != nil {
				sess.Apply(result.Result)
				fmt.Println(active.RenderResult(result.ToolName, result.Result))
				continue
			}
			fmt.Println(result.Content)
		}
		return scanner.Err()
	},
}
