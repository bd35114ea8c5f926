package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/goliatone/go-formengine"
	"github.com/goliatone/go-formengine/internal/config"
	"github.com/goliatone/go-formengine/pkg/descriptor"
	"github.com/goliatone/go-formengine/pkg/engine"
	"github.com/goliatone/go-formengine/pkg/orchestrator"
	"github.com/goliatone/go-formengine/pkg/payloadschema"
	"github.com/goliatone/go-formengine/pkg/render"
	"github.com/goliatone/go-formengine/pkg/renderers/tui"
	"github.com/goliatone/go-formengine/pkg/renderers/vanilla"
)

// fetchTimeout caps remote descriptor downloads.
const fetchTimeout = 15 * time.Second

const usage = `usage: formengine <command> [flags]

commands:
  serve     serve the form over HTTP
  render    render the initial form (vanilla HTML or a text summary)
  fill      fill the form in the terminal and print the payload
  schema    print the JSON schema of the form's payload
  validate  check a stored payload against the form's schema
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var err error
	switch cmd, args := os.Args[1], os.Args[2:]; cmd {
	case "serve":
		err = runServe(ctx, args)
	case "render":
		err = runRender(ctx, args)
	case "fill":
		err = runFill(ctx, args)
	case "schema":
		err = runSchema(ctx, args)
	case "validate":
		err = runValidate(ctx, args)
	case "-h", "-help", "--help", "help":
		fmt.Print(usage)
		return
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n%s", cmd, usage)
		os.Exit(2)
	}
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(2)
		}
		log.Fatalf("%s: %v", os.Args[1], err)
	}
}

// formFlags are shared by every command that loads a document.
type formFlags struct {
	config   *string
	spec     *string
	title    *string
	timezone *string
	defaults *bool
}

func registerFormFlags(fs *flag.FlagSet) formFlags {
	return formFlags{
		config:   fs.String("config", "", "YAML config file"),
		spec:     fs.String("spec", "", "descriptor document path or URL (overrides config)"),
		title:    fs.String("title", "", "form heading (overrides config)"),
		timezone: fs.String("timezone", "", "zone used to read date-time input (overrides config)"),
		defaults: fs.Bool("defaults", false, "seed values from each field's default"),
	}
}

// resolve merges flags over the loaded config.
func (f formFlags) resolve() (*config.Config, error) {
	cfg, err := config.Load(*f.config)
	if err != nil {
		return nil, err
	}
	if *f.spec != "" {
		cfg.Form.SpecPath = *f.spec
	}
	if *f.title != "" {
		cfg.Form.Title = *f.title
	}
	if *f.timezone != "" {
		cfg.Form.Timezone = *f.timezone
	}
	if *f.defaults {
		cfg.Form.ApplyDefaults = true
	}
	return cfg, cfg.Validate()
}

func loadDocument(ctx context.Context, cfg *config.Config) (descriptor.Document, error) {
	return formengine.LoadDocument(ctx, cfg.Form.SpecPath, descriptor.WithHTTPFallback(fetchTimeout))
}

func formOptions(cfg *config.Config) ([]engine.Option, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	opts := []engine.Option{engine.WithTitle(cfg.Form.Title), engine.WithLocation(loc)}
	if cfg.Form.ApplyDefaults {
		opts = append(opts, engine.WithDefaultValues())
	}
	return opts, nil
}

func runRender(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("render", flag.ContinueOnError)
	ff := registerFormFlags(fs)
	rendererName := fs.String("renderer", "vanilla", "renderer to use (vanilla, tui)")
	output := fs.String("output", "", "output file (stdout if empty)")
	fragment := fs.Bool("fragment", false, "render only the form element")
	presets := fs.String("presets", "", "JSON file relabelling the title, categories, or fields")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := ff.resolve()
	if err != nil {
		return err
	}
	doc, err := loadDocument(ctx, cfg)
	if err != nil {
		return err
	}
	opts, err := formOptions(cfg)
	if err != nil {
		return err
	}

	html, err := vanilla.New()
	if err != nil {
		return err
	}
	text, err := tui.New()
	if err != nil {
		return err
	}
	renderers, err := orchestrator.NewRenderers(html, text)
	if err != nil {
		return err
	}

	genOptions := []orchestrator.Option{
		orchestrator.WithRenderers(renderers),
		orchestrator.WithFormOptions(opts...),
	}
	if *presets != "" {
		data, err := os.ReadFile(*presets)
		if err != nil {
			return err
		}
		preset, err := orchestrator.NewJSONPresetTransformer(data)
		if err != nil {
			return err
		}
		genOptions = append(genOptions, orchestrator.WithViewTransformer(preset))
	}

	out, err := orchestrator.New(genOptions...).Generate(ctx, orchestrator.Request{
		Document:      &doc,
		Renderer:      *rendererName,
		RenderOptions: render.RenderOptions{Fragment: *fragment},
	})
	if err != nil {
		return err
	}
	return writeOutput(*output, out)
}

func runFill(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("fill", flag.ContinueOnError)
	ff := registerFormFlags(fs)
	output := fs.String("output", "", "also write the payload to this file")
	attempts := fs.Int("attempts", 0, "give up after this many incomplete submits (0 asks each time)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := ff.resolve()
	if err != nil {
		return err
	}
	doc, err := loadDocument(ctx, cfg)
	if err != nil {
		return err
	}
	opts, err := formOptions(cfg)
	if err != nil {
		return err
	}

	renderer, err := tui.New(tui.WithOutput(os.Stdout), tui.WithMaxAttempts(*attempts))
	if err != nil {
		return err
	}

	form := formengine.NewForm(doc, opts...)
	if err := form.Mount(nil); err != nil {
		return err
	}
	defer form.Unmount()

	submission, err := renderer.Fill(ctx, form)
	if err != nil {
		return err
	}
	if *output == "" {
		return nil
	}
	return writeOutput(*output, []byte(submission.JSON+"\n"))
}

func runSchema(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("schema", flag.ContinueOnError)
	ff := registerFormFlags(fs)
	output := fs.String("output", "", "output file (stdout if empty)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := ff.resolve()
	if err != nil {
		return err
	}
	doc, err := loadDocument(ctx, cfg)
	if err != nil {
		return err
	}
	out, err := payloadschema.Marshal(payloadschema.Build(doc))
	if err != nil {
		return err
	}
	return writeOutput(*output, out)
}

func runValidate(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("validate", flag.ContinueOnError)
	ff := registerFormFlags(fs)
	payload := fs.String("payload", "-", "payload file, - for stdin")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := ff.resolve()
	if err != nil {
		return err
	}
	doc, err := loadDocument(ctx, cfg)
	if err != nil {
		return err
	}

	var data []byte
	if *payload == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(*payload)
	}
	if err != nil {
		return err
	}

	if err := payloadschema.Validate(payloadschema.Build(doc), data); err != nil {
		return err
	}
	fmt.Println("payload is valid")
	return nil
}

func writeOutput(path string, data []byte) error {
	if path == "" {
		_, err := os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return err
	}
	fmt.Printf("written to %s\n", path)
	return nil
}
