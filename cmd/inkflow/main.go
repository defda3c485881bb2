// Command inkflow streams AI-generated text into a document.
//
// One-shot mode fills a blank line of a file and writes it back:
//
//	inkflow --file notes.md --line 3 --prompt "list three colors"
//
// --template wraps the prompt in a built-in instruction (summarize, todo,
// table or flowchart).
//
// Without --file every line read from stdin is a prompt, and the generated
// text is echoed to stdout. A new prompt supersedes a running generation;
// Ctrl-C cancels it, a second Ctrl-C exits.
package main

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/pflag"

	"github.com/kbukum/inkflow/bootstrap"
	"github.com/kbukum/inkflow/completion"
	"github.com/kbukum/inkflow/version"
)

type options struct {
	configFile    string
	envFile       string
	file          string
	line          int
	prompt        string
	template      completion.Template
	listProviders bool
	check         bool
	showVersion   bool
	overrides     overrides
}

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		if !stderrors.Is(err, pflag.ErrHelp) {
			_, _ = color.New(color.FgRed).Fprintf(os.Stderr, "inkflow: %v\n", err)
			os.Exit(1)
		}
	}
}

func parseFlags(args []string, errOut io.Writer) (*options, error) {
	var o options
	fs := pflag.NewFlagSet("inkflow", pflag.ContinueOnError)
	fs.SetOutput(errOut)
	fs.StringVarP(&o.configFile, "config", "c", "", "path to inkflow.yml")
	fs.StringVar(&o.envFile, "env-file", "", "path to a .env file")
	fs.StringVarP(&o.overrides.provider, "provider", "p", "", "provider id (see --list-providers)")
	fs.StringVarP(&o.overrides.model, "model", "m", "", "model id for the selected provider")
	fs.BoolVar(&o.overrides.noStream, "no-stream", false, "wait for the whole response instead of streaming")
	fs.BoolVar(&o.overrides.debug, "debug", false, "log at debug level")
	fs.StringVarP(&o.file, "file", "f", "", "file to generate into")
	fs.IntVarP(&o.line, "line", "l", 0, "1-based blank line of --file to fill (default: last line)")
	fs.StringVar(&o.prompt, "prompt", "", "prompt for --file mode")
	templateName := fs.StringP("template", "t", "", "wrap prompts in a template: summarize, todo, table or flowchart")
	fs.BoolVar(&o.listProviders, "list-providers", false, "print the provider catalog and exit")
	fs.BoolVar(&o.check, "check", false, "report which providers are usable with the current settings and exit")
	fs.BoolVarP(&o.showVersion, "version", "v", false, "print the version and exit")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	o.overrides.hasProvider = fs.Changed("provider")
	o.overrides.hasModel = fs.Changed("model")

	tmpl, err := completion.ParseTemplate(*templateName)
	if err != nil {
		return nil, err
	}
	o.template = tmpl

	if o.file != "" && o.prompt == "" {
		return nil, fmt.Errorf("--prompt is required with --file")
	}
	if o.file == "" && (o.prompt != "" || fs.Changed("line")) {
		return nil, fmt.Errorf("--prompt and --line need --file")
	}
	return &o, nil
}

func run(ctx context.Context, args []string, in io.Reader, out, errOut io.Writer) error {
	o, err := parseFlags(args, errOut)
	if err != nil {
		return err
	}
	if o.showVersion {
		_, err := fmt.Fprintf(out, "inkflow %s\n", version.Get())
		return err
	}

	cfg, err := loadConfig(o.configFile, o.envFile)
	if err != nil {
		return err
	}
	if err := o.overrides.apply(cfg); err != nil {
		return err
	}

	if o.listProviders || o.check {
		cfg.ApplyDefaults()
		if err := cfg.Validate(); err != nil {
			return err
		}
		if o.listProviders {
			listProviders(out, cfg.AI)
			return nil
		}
		return writeHealth(out, checkProviders(cfg.AI, cfg.Base.Name, cfg.Base.Version))
	}

	var appOpts []bootstrap.Option
	if o.file == "" {
		appOpts = append(appOpts, bootstrap.WithSummaryOutput(errOut))
	}
	app, err := bootstrap.NewApp(cfg, appOpts...)
	if err != nil {
		return err
	}

	w := newWiring(cfg, errOut)
	w.template = o.template
	w.register(app)

	return app.RunTask(ctx, func(ctx context.Context) error {
		if o.file != "" {
			line := o.line
			if line == 0 {
				line = -1
			}
			return w.runOnce(ctx, o.file, line, o.prompt)
		}
		return w.runInteractive(ctx, in, out)
	})
}
