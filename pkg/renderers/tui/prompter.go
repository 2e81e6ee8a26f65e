package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-courseform/pkg/course"
	"github.com/goliatone/go-courseform/pkg/model"
	"github.com/goliatone/go-courseform/pkg/render"
	"github.com/goliatone/go-courseform/pkg/upload"
)

// LandingForm is the landing section of an authoring session.
type LandingForm interface {
	LandingView() render.View
	SetLanding(name string, value any) error
	TouchLanding(name string) error
}

// CurriculumEditor adds lectures and uploads their videos.
type CurriculumEditor interface {
	AddLecture(item course.CurriculumItem) (int, error)
	SetFreePreview(idx int, free bool) error
	BeginLectureUpload(ctx context.Context, idx int, file upload.File) (upload.Result, error)
}

// ImageEditor uploads the settings thumbnail.
type ImageEditor interface {
	BeginImageUpload(ctx context.Context, file upload.File) (upload.Result, error)
}

// Prompter walks an author through the course sections.
type Prompter struct {
	cfg config
}

// NewPrompter builds a prompter; without WithPromptDriver it uses survey.
func NewPrompter(options ...Option) *Prompter {
	return &Prompter{cfg: newConfig(options)}
}

// FillLanding prompts for every landing field in schema order. Each answer is
// written and touched; a field that still shows an error is asked again, up
// to the configured attempt limit.
func (p *Prompter) FillLanding(ctx context.Context, form LandingForm) error {
	view := form.LandingView()
	if err := p.info(ctx, view.Title); err != nil {
		return err
	}
	for _, ctrl := range view.Controls {
		if err := p.fillControl(ctx, form, ctrl); err != nil {
			return err
		}
	}
	return nil
}

func (p *Prompter) fillControl(ctx context.Context, form LandingForm, ctrl render.Control) error {
	for attempt := 1; ; attempt++ {
		value, err := p.ask(ctx, ctrl)
		if err != nil {
			return err
		}
		if err := form.SetLanding(ctrl.Name, value); err != nil {
			return err
		}
		if err := form.TouchLanding(ctrl.Name); err != nil {
			return err
		}

		current, ok := controlNamed(form.LandingView(), ctrl.Name)
		if !ok || !current.HasError() {
			return nil
		}
		if err := p.info(ctx, p.cfg.theme.ErrorPrefix+current.Error); err != nil {
			return err
		}
		if attempt >= p.cfg.maxAttempts {
			return fmt.Errorf("%w: %s", ErrTooManyAttempts, ctrl.Label)
		}
		ctrl = current
	}
}

func (p *Prompter) ask(ctx context.Context, ctrl render.Control) (string, error) {
	message := ctrl.Label
	if ctrl.Required {
		message += p.cfg.theme.RequiredMark
	}

	switch ctrl.Kind {
	case model.KindSelect:
		if ctrl.Select == nil {
			break
		}
		labels := make([]string, len(ctrl.Select.Options))
		for i, opt := range ctrl.Select.Options {
			labels[i] = opt.Label
		}
		idx, err := p.cfg.driver.Select(ctx, SelectConfig{
			Message:      message,
			Options:      labels,
			DefaultIndex: ctrl.Select.Selected,
			Help:         ctrl.Placeholder,
		})
		if err != nil {
			return "", err
		}
		if idx < 0 || idx >= len(ctrl.Select.Options) {
			return "", nil
		}
		return ctrl.Select.Options[idx].ID, nil
	case model.KindMultilineText:
		if ctrl.Multiline == nil {
			break
		}
		return p.cfg.driver.TextArea(ctx, TextAreaConfig{
			Message: message,
			Default: ctrl.Multiline.Value,
			Help:    ctrl.Placeholder,
		})
	}

	var current string
	if ctrl.Text != nil {
		current = ctrl.Text.Value
	}
	return p.cfg.driver.Input(ctx, InputConfig{
		Message: message,
		Default: current,
		Help:    ctrl.Placeholder,
	})
}

// AddLectures keeps offering to add lectures until the author declines. Each
// lecture gets a title, an optional video upload and a free preview flag. An
// upload failure is reported and the lecture kept without a video. It
// returns the number of lectures added.
func (p *Prompter) AddLectures(ctx context.Context, editor CurriculumEditor) (int, error) {
	added := 0
	for {
		more, err := p.cfg.driver.Confirm(ctx, ConfirmConfig{
			Message: "Add a lecture?",
			Default: added == 0,
		})
		if err != nil {
			return added, err
		}
		if !more {
			return added, nil
		}

		title, err := p.cfg.driver.Input(ctx, InputConfig{
			Message:   "Lecture title" + p.cfg.theme.RequiredMark,
			Validator: requireText("Lecture title"),
		})
		if err != nil {
			return added, err
		}
		idx, err := editor.AddLecture(course.CurriculumItem{Title: strings.TrimSpace(title)})
		if err != nil {
			return added, err
		}
		added++

		path, err := p.cfg.driver.Input(ctx, InputConfig{
			Message: "Video file",
			Help:    "Leave empty to upload later",
		})
		if err != nil {
			return added, err
		}
		if err := p.uploadLecture(ctx, editor, idx, strings.TrimSpace(path)); err != nil {
			return added, err
		}

		free, err := p.cfg.driver.Confirm(ctx, ConfirmConfig{Message: "Free preview?"})
		if err != nil {
			return added, err
		}
		if free {
			if err := editor.SetFreePreview(idx, true); err != nil {
				return added, err
			}
		}
	}
}

func (p *Prompter) uploadLecture(ctx context.Context, editor CurriculumEditor, idx int, path string) error {
	if path == "" {
		return nil
	}
	file, err := p.cfg.open(path)
	if err != nil {
		return p.info(ctx, p.cfg.theme.ErrorPrefix+err.Error())
	}
	if _, err := editor.BeginLectureUpload(ctx, idx, file); err != nil {
		if errors.Is(err, context.Canceled) {
			return err
		}
		return p.info(ctx, p.cfg.theme.ErrorPrefix+err.Error())
	}
	return p.info(ctx, p.cfg.theme.InfoPrefix+"Uploaded "+file.Name())
}

// ChooseImage asks for a thumbnail path and uploads it. An empty answer
// skips the upload. It reports whether an image was stored.
func (p *Prompter) ChooseImage(ctx context.Context, editor ImageEditor) (bool, error) {
	path, err := p.cfg.driver.Input(ctx, InputConfig{
		Message: "Course thumbnail",
		Help:    "Path to an image file, empty to skip",
	})
	if err != nil {
		return false, err
	}
	path = strings.TrimSpace(path)
	if path == "" {
		return false, nil
	}
	file, err := p.cfg.open(path)
	if err != nil {
		return false, p.info(ctx, p.cfg.theme.ErrorPrefix+err.Error())
	}
	if _, err := editor.BeginImageUpload(ctx, file); err != nil {
		return false, p.info(ctx, p.cfg.theme.ErrorPrefix+err.Error())
	}
	return true, p.info(ctx, p.cfg.theme.InfoPrefix+"Uploaded "+file.Name())
}

// Confirm asks a yes/no question.
func (p *Prompter) Confirm(ctx context.Context, message string, def bool) (bool, error) {
	return p.cfg.driver.Confirm(ctx, ConfirmConfig{Message: message, Default: def})
}

// Info prints msg through the driver.
func (p *Prompter) Info(ctx context.Context, msg string) error {
	return p.info(ctx, msg)
}

func (p *Prompter) info(ctx context.Context, msg string) error {
	if msg == "" {
		return nil
	}
	return p.cfg.driver.Info(ctx, msg)
}

func controlNamed(view render.View, name string) (render.Control, bool) {
	for _, ctrl := range view.Controls {
		if ctrl.Name == name {
			return ctrl, true
		}
	}
	return render.Control{}, false
}

func requireText(label string) func(string) error {
	return func(value string) error {
		if strings.TrimSpace(value) == "" {
			return fmt.Errorf("%s is required", label)
		}
		return nil
	}
}
