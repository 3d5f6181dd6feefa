package script

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/ironsheep/layer-editor/internal/codec"
	"github.com/ironsheep/layer-editor/internal/layers"
)

// ErrUnknownCommand reports a command name the interpreter does not know.
var ErrUnknownCommand = errors.New("unknown command")

type command struct {
	args int
	run  func(args []string) error
}

// Interpreter executes commands against one stack and writes a status
// message for each to its output.
type Interpreter struct {
	stack    *layers.Stack
	out      io.Writer
	log      *zap.Logger
	cache    *codec.Cache
	opts     []layers.Option
	commands map[string]command
}

// New returns an interpreter editing stack. opts are applied to stacks read
// by loadLayered and loadBundle.
func New(stack *layers.Stack, out io.Writer, log *zap.Logger, opts ...layers.Option) *Interpreter {
	if log == nil {
		log = zap.NewNop()
	}
	in := &Interpreter{stack: stack, out: out, log: log, cache: codec.NewCache(), opts: opts}
	in.commands = map[string]command{
		"blur":        {0, func([]string) error { return stack.Blur() }},
		"sharpen":     {0, func([]string) error { return stack.Sharpen() }},
		"greyscale":   {0, func([]string) error { return stack.Greyscale() }},
		"sepia":       {0, func([]string) error { return stack.Sepia() }},
		"downscale":   {2, in.downscale},
		"mosaic":      {1, in.mosaic},
		"current":     {1, func(a []string) error { return stack.SetCurrent(a[0]) }},
		"create":      {1, func(a []string) error { return stack.AddLayer(a[0]) }},
		"remove":      {1, func(a []string) error { return stack.RemoveLayer(a[0]) }},
		"invisible":   {1, func(a []string) error { return stack.SetInvisible(a[0]) }},
		"transparent": {0, func([]string) error { stack.MakeTransparent(); return nil }},
		"load":        {1, in.load},
		"save":        {2, in.save},
		"saveTopmost": {2, in.saveTopmost},
		"saveBundle":  {1, in.saveBundle},
		"loadLayered": {1, in.loadLayered},
		"loadBundle":  {1, in.loadBundle},
		"layers":      {0, in.list},
	}
	return in
}

// Run executes commands read from r until it is exhausted or a quit
// command is seen. Failed commands are reported and skipped; only a read
// error ends Run with an error.
func (in *Interpreter) Run(r io.Reader) error {
	sc := bufio.NewScanner(r)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
			continue
		}
		if isQuit(fields[0]) {
			in.printf("Quit.")
			return nil
		}

		log := in.log.With(zap.Int("line", lineNo), zap.String("command", fields[0]))
		if err := in.Exec(fields[0], fields[1:]...); err != nil {
			log.Debug("command failed", zap.Strings("args", fields[1:]), zap.Error(err))
			if errors.Is(err, ErrUnknownCommand) {
				in.printf("Invalid command %q. Please enter a valid command.", fields[0])
			} else {
				in.printf("Command %s failed: %v", fields[0], err)
			}
			continue
		}
		log.Debug("command complete")
		in.printf("Command complete.")
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("failed to read commands: %w", err)
	}
	return nil
}

// RunFile executes the script at path.
func (in *Interpreter) RunFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		in.printf("Script %s not found.", path)
		return fmt.Errorf("failed to open script: %w", err)
	}
	defer f.Close()

	in.log.Info("running script", zap.String("path", path))
	if err := in.Run(f); err != nil {
		return err
	}
	in.printf("Script complete.")
	return nil
}

// Exec runs a single command.
func (in *Interpreter) Exec(name string, args ...string) error {
	cmd, ok := in.commands[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownCommand, name)
	}
	if len(args) != cmd.args {
		return fmt.Errorf("%s takes %d arguments, got %d: %w", name, cmd.args, len(args), layers.ErrArgument)
	}
	return cmd.run(args)
}

func (in *Interpreter) downscale(args []string) error {
	w, err := parseInt(args[0])
	if err != nil {
		return err
	}
	h, err := parseInt(args[1])
	if err != nil {
		return err
	}
	return in.stack.Downscale(w, h)
}

func (in *Interpreter) mosaic(args []string) error {
	n, err := parseInt(args[0])
	if err != nil {
		return err
	}
	return in.stack.Mosaic(n)
}

func (in *Interpreter) load(args []string) error {
	img, err := in.cache.Load(args[0])
	if err != nil {
		return err
	}
	return in.stack.LoadImage(img)
}

func (in *Interpreter) save(args []string) error {
	ft, err := codec.ParseFileType(args[1])
	if err != nil {
		return err
	}
	defer in.cache.Clear()
	return codec.ExportLayered(args[0], in.stack, ft)
}

func (in *Interpreter) saveTopmost(args []string) error {
	ft, err := codec.ParseFileType(args[1])
	if err != nil {
		return err
	}
	defer in.cache.Clear()
	path, err := codec.ExportTopmost(args[0], in.stack, ft)
	if err != nil {
		return err
	}
	in.log.Debug("saved topmost layer", zap.String("path", path))
	return nil
}

func (in *Interpreter) saveBundle(args []string) error {
	f, err := os.Create(args[0])
	if err != nil {
		return fmt.Errorf("failed to create bundle: %w", err)
	}
	if err := codec.WriteBundle(f, in.stack); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func (in *Interpreter) loadLayered(args []string) error {
	loaded, err := codec.ImportLayered(args[0], in.opts...)
	if err != nil {
		return err
	}
	return in.stack.ReplaceLayeredImage(loaded)
}

func (in *Interpreter) loadBundle(args []string) error {
	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("failed to open bundle: %w", err)
	}
	defer f.Close()

	loaded, err := codec.ReadBundle(f, in.opts...)
	if err != nil {
		return err
	}
	return in.stack.ReplaceLayeredImage(loaded)
}

func (in *Interpreter) list([]string) error {
	for i, l := range in.stack.Summaries() {
		mark := " "
		if l.Current {
			mark = "*"
		}
		state := "visible"
		if !l.Visible {
			state = "hidden"
		}
		in.printf("%s %d %s %dx%d %s", mark, i, l.Name, l.Width, l.Height, state)
	}
	return nil
}

func (in *Interpreter) printf(format string, args ...any) {
	fmt.Fprintf(in.out, format+"\n", args...)
}

func parseInt(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%q is not a number: %w", s, layers.ErrArgument)
	}
	return n, nil
}

func isQuit(s string) bool {
	return strings.EqualFold(s, "q") || strings.EqualFold(s, "quit")
}
