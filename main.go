package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/peterh/liner"
	"golang.org/x/sync/errgroup"
	"golang.org/x/term"

	"github.com/jcorbin/gobc/internal/fileinput"
	"github.com/jcorbin/gobc/internal/logio"
	"github.com/jcorbin/gobc/internal/runeio"
)

type stringsFlag []string

func (sf *stringsFlag) String() string     { return strings.Join(*sf, ", ") }
func (sf *stringsFlag) Set(s string) error { *sf = append(*sf, s); return nil }

func main() {
	os.Exit(run())
}

func run() int {
	var (
		dcMode      bool
		exprs       stringsFlag
		files       stringsFlag
		quiet       bool
		interactive bool
		trace       bool
		timeout     time.Duration
		parallel    bool
	)
	flag.BoolVar(&dcMode, "dc", filepath.Base(os.Args[0]) == "dc", "compile dc rather than bc")
	flag.Var(&exprs, "e", "run an expression before any files; may be repeated")
	flag.Var(&files, "f", "run a file; may be repeated")
	flag.BoolVar(&quiet, "q", false, "do not print the interactive banner")
	flag.BoolVar(&interactive, "i", false, "force interactive mode")
	flag.Bool("s", false, "ignored, for compatibility")
	flag.Bool("w", false, "ignored, for compatibility")
	flag.BoolVar(&trace, "trace", false, "log every instruction executed")
	flag.DurationVar(&timeout, "timeout", 0, "time limit for each statement")
	flag.BoolVar(&parallel, "j", false, "run each file in its own VM, concurrently")
	flag.Parse()
	files = append(files, flag.Args()...)

	mode := ModeBC
	if dcMode {
		mode = ModeDC
	}
	log := logio.NewLogger(os.Stderr)
	opts := []VMOption{
		WithMode(mode),
		WithLineLength(lineLength(mode)),
	}
	if trace {
		opts = append(opts, WithLogf(log.Leveledf("TRACE")))
	}

	if parallel {
		runParallel(log, opts, exprs, files, timeout)
		return log.ExitCode()
	}

	stdin := runeio.Named("<stdin>", os.Stdin)
	sess := session{
		log:     log,
		ctx:     context.Background(),
		timeout: timeout,
	}
	in := sess.queue(exprs, files)
	useStdin := len(exprs) == 0 || interactive
	if useStdin && !interactive {
		interactive = term.IsTerminal(int(os.Stdin.Fd()))
	}

	var line *liner.State
	readLine := func() (string, error) { return runeio.ReadLine(stdin) }
	if useStdin && interactive {
		line = liner.NewLiner()
		line.SetCtrlCAborts(true)
		defer line.Close()
		readLine = func() (string, error) {
			s, err := line.Prompt("")
			if err != nil {
				return "", err
			}
			return s + "\n", nil
		}
	}

	sess.vm = New(append(opts, WithOutput(os.Stdout), WithReadLine(readLine))...)
	defer func() { log.ErrorIf(sess.vm.Close()) }()

	if sess.runInput(in) {
		return log.ExitCode()
	}
	if useStdin {
		if line != nil {
			if !quiet {
				fmt.Fprintf(os.Stderr, "gobc %v; type quit to exit\n", mode)
			}
			sess.repl(line)
		} else {
			sess.runInput(&fileinput.Input{Queue: []io.Reader{stdin}})
		}
	}
	return log.ExitCode()
}

// lineLength reads BC_LINE_LENGTH or DC_LINE_LENGTH, falling back to the
// default capped by the width of a terminal on stdout.
func lineLength(mode Mode) int {
	name := "BC_LINE_LENGTH"
	if mode == ModeDC {
		name = "DC_LINE_LENGTH"
	}
	if s, ok := os.LookupEnv(name); ok {
		if n, err := strconv.Atoi(s); err == nil && n >= 0 {
			return n
		}
	}
	n := defaultLineLength
	if fd := int(os.Stdout.Fd()); term.IsTerminal(fd) {
		if width, _, err := term.GetSize(fd); err == nil && width > 1 && width < n {
			n = width
		}
	}
	return n
}

// session feeds input to a VM a statement at a time, logging any errors at
// their input location.
type session struct {
	vm      *VM
	log     *logio.Logger
	ctx     context.Context
	timeout time.Duration

	// interrupt, if set, cancels the running statement.
	interrupt <-chan os.Signal
}

func (sess *session) queue(exprs, files []string) *fileinput.Input {
	var in fileinput.Input
	for _, expr := range exprs {
		in.Queue = append(in.Queue, runeio.Named("-e", strings.NewReader(expr+"\n")))
	}
	for _, name := range files {
		f, err := os.Open(name)
		if err != nil {
			sess.log.ErrorIf(err)
			continue
		}
		in.Queue = append(in.Queue, f)
	}
	return &in
}

// runInput runs every stream of in, returning true if the program asked to
// quit or the VM failed.
func (sess *session) runInput(in *fileinput.Input) bool {
	var pending strings.Builder
	for !in.Done() {
		line, err := in.ReadLine()
		final := err == io.EOF
		if err != nil && !final {
			sess.log.Errorf("%v: %v", in.Loc, err)
			pending.Reset()
			continue
		}
		pending.WriteString(line)
		if pending.Len() == 0 {
			continue
		}
		more, stop := sess.eval(in.Loc, pending.String(), final)
		if stop {
			return true
		}
		if !more {
			pending.Reset()
		}
	}
	return false
}

// repl runs lines read from a terminal until end of input or quit.
func (sess *session) repl(line *liner.State) {
	sigch := make(chan os.Signal, 1)
	signal.Notify(sigch, os.Interrupt)
	defer signal.Stop(sigch)
	sess.interrupt = sigch

	loc := fileinput.Location{Name: "<stdin>"}
	var pending strings.Builder
	for {
		text, err := line.Prompt("")
		switch {
		case err == liner.ErrPromptAborted:
			pending.Reset()
			continue
		case err == io.EOF:
			if pending.Len() > 0 {
				sess.eval(loc, pending.String(), true)
			}
			return
		case err != nil:
			sess.log.ErrorIf(err)
			return
		}
		if strings.TrimSpace(text) != "" {
			line.AppendHistory(text)
		}
		loc.Line++
		pending.WriteString(text)
		pending.WriteByte('\n')
		more, stop := sess.eval(loc, pending.String(), false)
		if stop {
			return
		}
		if !more {
			pending.Reset()
		}
	}
}

// eval compiles and runs src. It returns more if src is incomplete and
// further input may finish it, and stop if the session should end.
func (sess *session) eval(loc fileinput.Location, src string, final bool) (more, stop bool) {
	err := sess.vm.Compile(src)
	if err == errIncomplete {
		if !final {
			return true, false
		}
		sess.log.Errorf("%v: unexpected end of input", loc)
		return false, false
	}
	if err == nil || ErrorKind(err) == Quit {
		if xerr := sess.exec(); xerr != nil {
			err = xerr
		}
	}
	if err == nil {
		return false, false
	}
	switch ErrorKind(err) {
	case Quit:
		return false, true
	case Fatal:
		sess.log.Errorf("%v: %+v", loc, err)
		return false, true
	}
	sess.log.Errorf("%v: %v", loc, err)
	return false, false
}

func (sess *session) exec() error {
	ctx, cancel := context.WithCancel(sess.ctx)
	defer cancel()
	if sess.timeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, sess.timeout)
		defer cancel()
	}
	if sess.interrupt != nil {
		done := make(chan struct{})
		defer close(done)
		go func() {
			select {
			case <-sess.interrupt:
				cancel()
			case <-done:
			}
		}()
	}
	return sess.vm.Exec(ctx)
}

// runParallel runs each file in a VM of its own, writing their output and
// errors in argument order once all are done. Any expressions run first in
// every VM.
func runParallel(log *logio.Logger, opts []VMOption, exprs, files []string, timeout time.Duration) {
	type result struct {
		out, errs bytes.Buffer
		code      int
	}
	results := make([]result, len(files))

	eg, ctx := errgroup.WithContext(context.Background())
	for i := range files {
		res, name := &results[i], files[i]
		eg.Go(func() error {
			flog := logio.NewLogger(&res.errs)
			sess := session{
				vm:      New(VMOptions(opts...), WithOutput(&res.out)),
				log:     flog,
				ctx:     ctx,
				timeout: timeout,
			}
			defer sess.vm.withLogPrefix(name + ": ")()
			sess.runInput(sess.queue(exprs, []string{name}))
			flog.ErrorIf(sess.vm.Close())
			res.code = flog.ExitCode()
			return nil
		})
	}
	log.ErrorIf(eg.Wait())

	for i := range results {
		if _, err := results[i].out.WriteTo(os.Stdout); err != nil {
			log.ErrorIf(err)
			return
		}
		os.Stderr.Write(results[i].errs.Bytes())
		if results[i].code != 0 {
			log.Errorf("%v: exit %v", files[i], results[i].code)
		}
	}
}
