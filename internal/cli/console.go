package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/AndreyBuyanov/ExpertSystem/internal/logging"
	"github.com/AndreyBuyanov/ExpertSystem/internal/presentation/tui"
)

// Engine is what the console needs from a decision engine.
type Engine interface {
	Name() string
	CurrentData() string
	SetAnswer(value int) bool
	IsFinished() bool
	Reset()
}

// ConsoleOptions configures RunConsole.
type ConsoleOptions struct {
	// Hint is printed once under the title.
	Hint string
	// Render formats node text. Defaults to tui.PlainRenderer.
	Render tui.RenderFunc
	// Banner prints the ASCII banner first.
	Banner bool
	Logger *slog.Logger
}

// RunConsole drives eng from whitespace separated tokens read from in.
//
// It prints the current node; on a question it reads an integer and submits it,
// on a finished session it reads one token and quits on "y" or starts over otherwise.
// It returns nil at end of input or after the user quits.
func RunConsole(ctx context.Context, eng Engine, in io.Reader, out io.Writer, opts ConsoleOptions) error {
	if opts.Render == nil {
		opts.Render = tui.PlainRenderer
	}
	if opts.Logger == nil {
		opts.Logger = logging.NewNop()
	}
	styles := tui.NewStyles(out)

	if opts.Banner {
		tui.PrintBanner(out)
	}
	fmt.Fprintln(out, styles.Title("~~~ "+eng.Name()+" ~~~"))
	if opts.Hint != "" {
		fmt.Fprintln(out, styles.Hint(opts.Hint))
	}

	tokens := scanTokens(ctx, in)
	for {
		data := eng.CurrentData()
		finished := eng.IsFinished()

		text, err := opts.Render(data)
		if err != nil {
			opts.Logger.Warn("render failed, printing raw text", "err", err)
			text = data
		}
		if finished {
			fmt.Fprintln(out, styles.Result(text))
			fmt.Fprintln(out, styles.Hint("Enter y to quit, or anything else to start over."))
		} else {
			fmt.Fprintln(out, text)
		}

		tok, err := next(ctx, tokens)
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}

		if finished {
			if strings.HasPrefix(tok, "y") {
				return nil
			}
			eng.Reset()
			continue
		}

		value, err := strconv.Atoi(tok)
		if err != nil {
			fmt.Fprintln(out, styles.Error(fmt.Sprintf("%q is not a number. Try again.", tok)))
			continue
		}
		if !eng.SetAnswer(value) {
			opts.Logger.Debug("answer rejected", "value", value)
			fmt.Fprintln(out, styles.Error("Wrong answer. Try again."))
		}
	}
}

type token struct {
	text string
	err  error
}

// scanTokens reads words in the background so a blocked read does not hold up cancellation.
func scanTokens(ctx context.Context, in io.Reader) <-chan token {
	ch := make(chan token)
	go func() {
		defer close(ch)
		sc := bufio.NewScanner(in)
		sc.Split(bufio.ScanWords)
		for sc.Scan() {
			select {
			case ch <- token{text: sc.Text()}:
			case <-ctx.Done():
				return
			}
		}
		err := sc.Err()
		if err == nil {
			err = io.EOF
		}
		select {
		case ch <- token{err: err}:
		case <-ctx.Done():
		}
	}()
	return ch
}

func next(ctx context.Context, tokens <-chan token) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case t, ok := <-tokens:
		if !ok {
			return "", io.EOF
		}
		return t.text, t.err
	}
}
