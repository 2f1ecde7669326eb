package terminal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/manifoldco/promptui"

	"github.com/kikiluvv/trimlab/internal/editor"
)

// Prompter asks the user for choices and values.
type Prompter interface {
	Select(label string, items []string) (int, error)
	Input(label, defaultValue string, validate func(string) error) (string, error)
}

// ErrCancelled is returned by prompters when the user backs out.
var ErrCancelled = errors.New("prompt cancelled")

// PromptUI prompts on the terminal with promptui.
type PromptUI struct{}

func (PromptUI) Select(label string, items []string) (int, error) {
	sel := promptui.Select{
		Label: label,
		Items: items,
		Size:  len(items),
	}
	i, _, err := sel.Run()
	return i, mapPromptErr(err)
}

func (PromptUI) Input(label, defaultValue string, validate func(string) error) (string, error) {
	p := promptui.Prompt{
		Label:    label,
		Default:  defaultValue,
		Validate: validate,
	}
	v, err := p.Run()
	return strings.TrimSpace(v), mapPromptErr(err)
}

func mapPromptErr(err error) error {
	if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) || errors.Is(err, promptui.ErrAbort) {
		return ErrCancelled
	}
	return err
}

// ValidateFraction accepts a number in [0,1].
func ValidateFraction(s string) error {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return errors.New("enter a number between 0 and 1")
	}
	if math.IsNaN(v) || v < 0 || v > 1 {
		return fmt.Errorf("%v is outside 0..1", v)
	}
	return nil
}

func validatePath(s string) error {
	if strings.TrimSpace(s) == "" {
		return errors.New("a file path is required")
	}
	return nil
}

const (
	actionLoad   = "Load video"
	actionFilter = "Toggle filter"
	actionStart  = "Set start"
	actionEnd    = "Set end"
	actionShow   = "Show output"
	actionQuit   = "Quit"
)

var actions = []string{actionLoad, actionFilter, actionStart, actionEnd, actionShow, actionQuit}

// RunEditor drives s from terminal prompts until the user quits. Session
// errors are printed and the loop continues with the previous output.
func RunEditor(ctx context.Context, s *editor.Session, p Prompter, w io.Writer, initialPath string) error {
	fmt.Fprintln(w, TitleStyle.Render("✂️  trimlab editor"))

	if initialPath != "" {
		load(ctx, s, w, initialPath)
	}

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		label := fmt.Sprintf("range %s, filter %s", s.Range(), s.Filter())
		i, err := p.Select(label, actions)
		if errors.Is(err, ErrCancelled) {
			return nil
		}
		if err != nil {
			return err
		}

		switch actions[i] {
		case actionLoad:
			path, err := p.Input("Video file path", "", validatePath)
			if errors.Is(err, ErrCancelled) {
				continue
			}
			if err != nil {
				return err
			}
			load(ctx, s, w, path)

		case actionFilter:
			report(w, s, s.ToggleFilter(ctx))

		case actionStart:
			v, err := promptFraction(p, "Start (0-1)", s.Range().Start)
			if errors.Is(err, ErrCancelled) {
				continue
			}
			if err != nil {
				return err
			}
			report(w, s, s.SetStart(ctx, v))

		case actionEnd:
			v, err := promptFraction(p, "End (0-1)", s.Range().End)
			if errors.Is(err, ErrCancelled) {
				continue
			}
			if err != nil {
				return err
			}
			report(w, s, s.SetEnd(ctx, v))

		case actionShow:
			if out := s.Output(); out != nil {
				fmt.Fprintln(w, RenderOutput(out))
			} else {
				fmt.Fprintln(w, PromptStyle.Render("Nothing composed yet"))
			}

		case actionQuit:
			return nil
		}
	}
}

func promptFraction(p Prompter, label string, current float64) (float64, error) {
	v, err := p.Input(label, strconv.FormatFloat(current, 'f', -1, 64), ValidateFraction)
	if err != nil {
		return 0, err
	}
	return strconv.ParseFloat(v, 64)
}

func load(ctx context.Context, s *editor.Session, w io.Writer, path string) {
	err := s.Load(ctx, path)
	if s.Asset() != nil && s.Asset().URI == path {
		fmt.Fprintln(w, RenderAsset(s.Asset()))
	}
	report(w, s, err)
}

func report(w io.Writer, s *editor.Session, err error) {
	if err != nil {
		fmt.Fprintln(w, RenderError(err))
		return
	}
	if out := s.Output(); out != nil {
		fmt.Fprintln(w, SuccessStyle.Render(fmt.Sprintf("✓ playing %s (%s)", FormatClock(out.Duration().Seconds()), out.Render.Processor.Name())))
	}
}
