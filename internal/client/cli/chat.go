package cli

import (
	"context"
	"fmt"
	"strings"
)

// Chat runs a conversation with the assistant until an empty line or /bye.
// A failed turn is reported and the conversation continues.
func (a *App) Chat(ctx context.Context) error {
	conv := a.assistant.Start(a.lang)
	fmt.Fprintf(a.out, "assistant> %s\n", conv.Greeting)
	fmt.Fprintln(a.out, "(empty line or /bye to leave)")

	for {
		fmt.Fprint(a.out, "you> ")
		line, err := readLine(a.reader)
		if err != nil {
			fmt.Fprintln(a.out)
			return nil
		}
		if line == "" || strings.EqualFold(line, "/bye") {
			return nil
		}

		reply, err := a.assistant.Ask(ctx, conv, line)
		if err != nil {
			fmt.Fprintf(a.out, "assistant> %s\n", a.explain(err))
			continue
		}
		fmt.Fprintf(a.out, "assistant> %s\n", reply)
	}
}
