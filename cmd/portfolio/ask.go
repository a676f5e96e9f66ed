package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/Anannyachuli/Product-Portfolio/internal/assistant"
	"github.com/Anannyachuli/Product-Portfolio/internal/service/chat"
	"github.com/spf13/cobra"
)

var (
	askURL    string
	askStream bool
	askWidth  int
)

func newAskCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ask",
		Short: "Chat with a running gateway from the terminal",
		Long: `Starts an interactive session against a gateway.

Type a question, a number to pick a suggested question, /reset to start over, or /quit to exit.`,
		RunE: runAsk,
	}
	cmd.Flags().StringVar(&askURL, "url", "http://localhost:8080", "Gateway base URL")
	cmd.Flags().BoolVar(&askStream, "stream", false, "Use the streaming endpoint")
	cmd.Flags().IntVar(&askWidth, "width", 72, "Maximum bubble width")
	return cmd
}

func runAsk(cmd *cobra.Command, args []string) error {
	client := assistant.NewHTTPClient(askURL, assistant.WithStreaming(askStream))
	session := assistant.NewSession(client)
	return repl(cmd.Context(), session, assistant.NewRenderer(askWidth), cmd.InOrStdin(), cmd.OutOrStdout())
}

func repl(ctx context.Context, session *assistant.Session, r *assistant.Renderer, in io.Reader, out io.Writer) error {
	scanner := bufio.NewScanner(in)
	var starters []string

	for {
		if s, ok := session.Greet(); ok {
			starters = s
			fmt.Fprintln(out, r.Starters(starters))
		}
		fmt.Fprint(out, "> ")

		if !scanner.Scan() {
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())

		switch line {
		case "":
			continue
		case "/quit", "/exit":
			return nil
		case "/reset":
			session.Reset()
			continue
		}

		if n, err := strconv.Atoi(line); err == nil && n >= 1 && n <= len(starters) && len(session.Turns()) == 0 {
			line = starters[n-1]
		}

		turn, err := session.Send(ctx, line)
		switch {
		case errors.Is(err, assistant.ErrQuotaExceeded):
			fmt.Fprintln(out, r.Notice(assistant.RateLimitedMessage))
			continue
		case errors.Is(err, chat.ErrInvalidInput):
			fmt.Fprintln(out, r.Notice(chat.UserMessage(err)))
			continue
		case err != nil && ctx.Err() != nil:
			return ctx.Err()
		}

		fmt.Fprintln(out, r.Turn(turn))
		if !session.Exhausted() {
			fmt.Fprintln(out, r.Remaining(session.Remaining()))
		}
	}
}
