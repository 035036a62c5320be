// Package console is a line-oriented operator console for a codec
// capability. Each line is tokenised shell-style and mapped to one control
// request on hal/cap/<domain>/codec/<name>/control/<verb>.
package console

import (
	"bufio"
	"context"
	"errors"
	"io"
	"os"
	"time"

	"audiocodec-go/bus"
	"audiocodec-go/types"
	"audiocodec-go/x/fmtx"
	"audiocodec-go/x/jsonx"

	"github.com/google/shlex"
)

var (
	errUsage   = errors.New("usage")
	errUnknown = errors.New("unknown command")
)

type unknownCommand string

func (u unknownCommand) Error() string      { return "unknown command: " + string(u) }
func (unknownCommand) Is(target error) bool { return target == errUnknown }

// Options configures a Console. Zero values take defaults.
type Options struct {
	Domain  string        // default "audio"
	Name    string        // codec capability name, default "main"
	Prompt  string        // default "codec> "
	Timeout time.Duration // per request, default 1s
	// Open resolves paths for the wav command; default os.Open.
	Open func(path string) (io.ReadCloser, error)
}

// Settings is the retained config/console payload.
type Settings struct {
	Prompt string `json:"prompt"`
	Target string `json:"target"`
}

type Console struct {
	conn *bus.Connection
	out  io.Writer
	opts Options
}

func New(conn *bus.Connection, out io.Writer, opts Options) *Console {
	if opts.Domain == "" {
		opts.Domain = "audio"
	}
	if opts.Name == "" {
		opts.Name = "main"
	}
	if opts.Prompt == "" {
		opts.Prompt = "codec> "
	}
	if opts.Timeout <= 0 {
		opts.Timeout = time.Second
	}
	if opts.Open == nil {
		opts.Open = func(p string) (io.ReadCloser, error) { return os.Open(p) }
	}
	return &Console{conn: conn, out: out, opts: opts}
}

// Run reads commands from r until EOF or ctx is done. A retained
// config/console message, if present, overrides prompt and target.
func (c *Console) Run(ctx context.Context, r io.Reader) error {
	c.applySettings()

	lines := make(chan string)
	errc := make(chan error, 1)
	go func() {
		sc := bufio.NewScanner(r)
		for sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-ctx.Done():
				return
			}
		}
		errc <- sc.Err()
	}()

	for {
		fmtx.Fprint(c.out, c.opts.Prompt)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err := <-errc:
			return err
		case line := <-lines:
			if err := c.Exec(ctx, line); err != nil {
				fmtx.Fprintf(c.out, "error: %s\n", err.Error())
			}
		}
	}
}

func (c *Console) applySettings() {
	sub := c.conn.Subscribe(bus.T("config", "console"))
	defer c.conn.Unsubscribe(sub)
	select {
	case m := <-sub.Channel():
		var s Settings
		if err := jsonx.Decode(m.Payload, &s); err != nil {
			println("[console] bad config:", err.Error())
			return
		}
		if s.Prompt != "" {
			c.opts.Prompt = s.Prompt
		}
		if s.Target != "" {
			c.opts.Name = s.Target
		}
	default:
	}
}

// Exec runs one command line. Blank lines and comments are ignored.
func (c *Console) Exec(ctx context.Context, line string) error {
	args, err := shlex.Split(line)
	if err != nil {
		return err
	}
	if len(args) == 0 {
		return nil
	}
	cmd, ok := commands[args[0]]
	if !ok {
		return unknownCommand(args[0])
	}
	if len(args)-1 < cmd.min || (cmd.max >= 0 && len(args)-1 > cmd.max) {
		fmtx.Fprintf(c.out, "usage: %s %s\n", args[0], cmd.usage)
		return errUsage
	}
	return cmd.run(ctx, c, args[1:])
}

func (c *Console) topic(verb string) bus.Topic {
	return bus.T("hal", "cap", c.opts.Domain, string(types.KindCodec), c.opts.Name, "control", verb)
}

// call sends one control and prints the reply.
func (c *Console) call(ctx context.Context, verb string, payload any) error {
	ctx, cancel := context.WithTimeout(ctx, c.opts.Timeout)
	defer cancel()
	rep, err := c.conn.RequestWait(ctx, c.conn.NewMessage(c.topic(verb), payload, false))
	if err != nil {
		return err
	}
	return c.print(rep.Payload)
}

func (c *Console) print(p any) error {
	switch v := p.(type) {
	case types.OKReply:
		fmtx.Fprint(c.out, "ok\n")
	case types.ErrorReply:
		return errors.New(v.Error)
	case types.CodecRegister:
		fmtx.Fprintf(c.out, "R%d = 0x%03x\n", v.Reg, v.Value)
	default:
		fmtx.Fprintf(c.out, "%v\n", v)
	}
	return nil
}

// status prints the last retained codec value without touching hardware.
func (c *Console) status(ctx context.Context) error {
	t := bus.T("hal", "cap", c.opts.Domain, string(types.KindCodec), c.opts.Name, "value")
	sub := c.conn.Subscribe(t)
	defer c.conn.Unsubscribe(sub)

	var m *bus.Message
	select {
	case m = <-sub.Channel():
	default:
		return errors.New("no codec value yet")
	}
	v, ok := m.Payload.(types.CodecValue)
	if !ok {
		return errors.New("unexpected value payload")
	}
	fmtx.Fprintf(c.out, "bias=%s resume=%s sysclk=%d rate=%d width=%d muted=%t active=%t\n",
		v.Bias, v.ResumeBias, v.SysclkHz, v.RateHz, v.Width, v.Muted, v.Active)
	for i, r := range v.Regs {
		fmtx.Fprintf(c.out, "  R%d 0x%03x\n", i, r)
	}
	if len(v.Dirty) > 0 {
		fmtx.Fprintf(c.out, "  unconfirmed: %v\n", v.Dirty)
	}
	return nil
}
