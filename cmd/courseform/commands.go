package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-courseform/internal/config"
	"github.com/goliatone/go-courseform/pkg/authoring"
	"github.com/goliatone/go-courseform/pkg/course"
	"github.com/goliatone/go-courseform/pkg/render"
	"github.com/goliatone/go-courseform/pkg/renderers/html"
	"github.com/goliatone/go-courseform/pkg/renderers/tui"
	"github.com/goliatone/go-courseform/pkg/validation"
)

var errNotPublishable = errors.New("course is not ready to publish")

var (
	fromFlag         string
	yesFlag          bool
	schemaFormatFlag string
	renderFormatFlag string
	outputFlag       string
)

var newCmd = &cobra.Command{
	Use:   "new",
	Short: "Create a course interactively or from a draft file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAuthoring(cmd, "")
	},
}

var editCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Load a published course, edit it and publish the update",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAuthoring(cmd, args[0])
	},
}

var checkCmd = &cobra.Command{
	Use:   "check <draft.yaml>",
	Short: "Report whether a draft passes the publish gate",
	Args:  cobra.ExactArgs(1),
	RunE:  runCheck,
}

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the landing page schema in use",
	Args:  cobra.NoArgs,
	RunE:  runSchema,
}

var renderCmd = &cobra.Command{
	Use:   "render [draft.yaml]",
	Short: "Render the landing form as terminal text or HTML",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runRender,
}

func init() {
	for _, c := range []*cobra.Command{newCmd, editCmd} {
		c.Flags().StringVar(&fromFlag, "from", "", "Apply a YAML draft instead of prompting")
		c.Flags().BoolVarP(&yesFlag, "yes", "y", false, "Publish without asking for confirmation")
	}
	schemaCmd.Flags().StringVarP(&schemaFormatFlag, "format", "f", "yaml", "Output format (yaml, json)")
	renderCmd.Flags().StringVarP(&renderFormatFlag, "format", "f", "tui", "Renderer to use (tui, html)")
	renderCmd.Flags().StringVarP(&outputFlag, "output", "o", "", "Write output to a file instead of stdout")
}

func runAuthoring(cmd *cobra.Command, id string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	session, err := openSession(ctx, cfg, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer session.Dispose()

	if id != "" {
		if err := session.StartEdit(ctx, id); err != nil {
			return fmt.Errorf("load course %s: %w", id, err)
		}
		fmt.Fprintf(out, "Editing %q\n", session.Snapshot().Landing.String("title"))
	}

	prompter := tui.NewPrompter(tui.WithOutput(out))
	interactive := fromFlag == ""
	if interactive {
		if err := promptDraft(ctx, prompter, session); err != nil {
			return err
		}
	} else {
		d, err := readDraft(fromFlag)
		if err != nil {
			return err
		}
		if err := applyDraft(session, d); err != nil {
			return err
		}
	}

	if !yesFlag && interactive {
		ok, err := prompter.Confirm(ctx, "Publish course?", true)
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(out, "Draft discarded.")
			return nil
		}
	}
	return publish(ctx, out, session)
}

func promptDraft(ctx context.Context, prompter *tui.Prompter, session *authoring.Session) error {
	if err := prompter.FillLanding(ctx, session); err != nil {
		return err
	}
	if _, err := prompter.ChooseImage(ctx, session); err != nil {
		return err
	}
	if n := session.Snapshot().Curriculum.Len(); n > 0 {
		if err := prompter.Info(ctx, fmt.Sprintf("Course has %d lecture(s).", n)); err != nil {
			return err
		}
	}
	_, err := prompter.AddLectures(ctx, session)
	return err
}

func publish(ctx context.Context, out io.Writer, session *authoring.Session) error {
	resp, err := session.Publish(ctx)
	var incomplete *authoring.SectionIncompleteError
	switch {
	case errors.As(err, &incomplete):
		if incomplete.Section == validation.SectionLanding {
			if rerr := printLanding(ctx, out, session); rerr != nil {
				return rerr
			}
		}
		for _, p := range incomplete.Problems {
			fmt.Fprintln(out, "  -", p)
		}
		return fmt.Errorf("%w: %s", errNotPublishable, incomplete.Reason)
	case err != nil:
		var te *authoring.TransportError
		if errors.As(err, &te) && len(te.Fields) > 0 {
			if rerr := printLanding(ctx, out, session); rerr != nil {
				return rerr
			}
		}
		return err
	}

	if msg := resp.Message; msg != "" {
		fmt.Fprintln(out, msg)
	}
	if id := resp.Data.String(course.KeyID); id != "" {
		fmt.Fprintf(out, "Published course %s\n", id)
	} else {
		fmt.Fprintln(out, "Published course")
	}
	return nil
}

func printLanding(ctx context.Context, out io.Writer, session *authoring.Session) error {
	data, err := tui.New().Render(ctx, session.LandingView())
	if err != nil {
		return err
	}
	_, err = out.Write(data)
	return err
}

func runCheck(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	d, err := readDraft(args[0])
	if err != nil {
		return err
	}
	session, err := offlineSession(ctx)
	if err != nil {
		return err
	}
	defer session.Dispose()
	if err := applyDraft(session, d); err != nil {
		return err
	}

	res := session.Check()
	if errs := session.LandingErrors(); len(errs) > 0 {
		res = validation.Result{
			Section: validation.SectionLanding,
			Reason:  validation.ErrorSummary(errs),
		}
	}
	if res.OK {
		fmt.Fprintln(out, "Ready to publish.")
		return nil
	}
	if res.Section == validation.SectionLanding {
		if err := printLanding(ctx, out, session); err != nil {
			return err
		}
	}
	fmt.Fprintf(out, "%s: %s\n", res.Section, res.Reason)
	for _, p := range res.Problems {
		fmt.Fprintln(out, "  -", p)
	}
	log.Debug().Str("section", string(res.Section)).Int("problems", len(res.Problems)).Msg("draft check failed")
	return errNotPublishable
}

func runSchema(cmd *cobra.Command, args []string) error {
	schema, err := loadSchema(cmd.Context(), cfg.Schema)
	if err != nil {
		return err
	}
	doc := map[string]any{"fields": schema}
	var data []byte
	switch strings.ToLower(schemaFormatFlag) {
	case "yaml", "yml":
		data, err = yaml.Marshal(doc)
	case "json":
		data, err = json.MarshalIndent(doc, "", "  ")
		data = append(data, '\n')
	default:
		return fmt.Errorf("unsupported format %q", schemaFormatFlag)
	}
	if err != nil {
		return err
	}
	_, err = cmd.OutOrStdout().Write(data)
	return err
}

func runRender(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	htmlRenderer, err := html.New()
	if err != nil {
		return err
	}
	formats, err := render.NewFormats(tui.New(), htmlRenderer)
	if err != nil {
		return err
	}
	renderer, err := formats.Lookup(renderFormatFlag)
	if err != nil {
		return err
	}

	session, err := offlineSession(ctx)
	if err != nil {
		return err
	}
	defer session.Dispose()
	if len(args) == 1 {
		d, err := readDraft(args[0])
		if err != nil {
			return err
		}
		if err := applyDraft(session, d); err != nil {
			return err
		}
	}

	data, err := renderer.Render(ctx, session.LandingView())
	if err != nil {
		return err
	}
	if outputFlag == "" {
		_, err = cmd.OutOrStdout().Write(data)
		return err
	}
	if err := os.WriteFile(outputFlag, data, 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	log.Info().Str("path", outputFlag).Str("renderer", renderer.Name()).Msg("form rendered")
	return nil
}

// offlineSession serves commands that never contact a gateway or upload.
func offlineSession(ctx context.Context) (*authoring.Session, error) {
	offline := cfg
	offline.Gateway = config.Gateway{Kind: config.GatewayMemory}
	offline.Upload = config.Upload{Kind: config.UploadNone}
	return openSession(ctx, offline, nil)
}
