package app

import (
	"context"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/raysh454/paydash/internal/errnorm"
	"github.com/raysh454/paydash/internal/logging"
	"github.com/raysh454/paydash/internal/model"
)

const (
	MsgEmptyXML      = "Veuillez saisir le contenu XML"
	MsgEmptyPainXML  = "Veuillez saisir le contenu XML PAIN"
	MsgUnknownError  = "Erreur inconnue"
	MsgConnectionErr = "Erreur de connexion"
)

// ValidationInput is the content of the validation form.
type ValidationInput struct {
	SourceType string `json:"sourceType"`
	TargetType string `json:"targetType"`
	XML        string `json:"xml"`
}

// Validate submits in for validation and reloads the validation and global
// histories. Blank XML is rejected locally without any outbound call.
func (o *Orchestrator) Validate(ctx context.Context, sess *Session, in ValidationInput) model.ValidationResult {
	if in.SourceType == "" {
		in.SourceType = o.cfg.DefaultSourceType
	}
	if in.TargetType == "" {
		in.TargetType = o.cfg.DefaultTargetType
	}

	sess.mu.Lock()
	sess.validationForm = in
	sess.mu.Unlock()

	if strings.TrimSpace(in.XML) == "" {
		return o.storeValidation(sess, model.ValidationResult{Error: MsgEmptyXML})
	}

	var res model.ValidationResult
	resp, err := o.api.Initiate(ctx, in.SourceType, in.TargetType, in.XML)
	if err != nil {
		o.logger.Warn("validation request failed", logging.Err(err))
		res = model.ValidationResult{Error: errorText(err)}
	} else {
		res = model.ValidationResult{
			Success: resp.OK(),
			Message: resp.Body,
			Status:  resp.StatusCode,
		}
		if !res.Success && strings.TrimSpace(resp.Body) != "" {
			res.Errors = errnorm.Normalize(resp.Body)
		}
	}

	o.storeValidation(sess, res)
	o.reloadAfterAction(ctx, sess, model.CategoryValidation)
	return res
}

// Transform submits a pain.001 document for MT101 transformation and reloads the
// transformation and global histories. Blank input is rejected locally.
func (o *Orchestrator) Transform(ctx context.Context, sess *Session, painXML string) model.TransformationResult {
	sess.mu.Lock()
	sess.transformInput = painXML
	sess.mu.Unlock()

	if strings.TrimSpace(painXML) == "" {
		return o.storeTransformation(sess, model.TransformationResult{Error: MsgEmptyPainXML})
	}

	var res model.TransformationResult
	out, err := o.api.ToMT101(ctx, painXML)
	switch {
	case err != nil:
		o.logger.Warn("transformation request failed", logging.Err(err))
		res = model.TransformationResult{Error: errorText(err)}
	case out.OK():
		res = model.TransformationResult{
			Output:         out.Response.MT101,
			BackendMessage: out.Response.Message,
		}
	default:
		res = model.TransformationResult{
			Error:          out.Response.Errors,
			BackendMessage: out.Response.Message,
		}
		if res.Error == "" {
			res.Error = MsgUnknownError
		} else {
			res.Errors = errnorm.Normalize(res.Error)
		}
	}

	o.storeTransformation(sess, res)
	o.reloadAfterAction(ctx, sess, model.CategoryTransformation)
	return res
}

// LastValidation returns the last validation result and form content.
func (o *Orchestrator) LastValidation(sess *Session) (*model.ValidationResult, ValidationInput) {
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sess.validation, sess.validationForm
}

// LastTransformation returns the last transformation result and input.
func (o *Orchestrator) LastTransformation(sess *Session) (*model.TransformationResult, string) {
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sess.transformation, sess.transformInput
}

func (o *Orchestrator) storeValidation(sess *Session, res model.ValidationResult) model.ValidationResult {
	sess.mu.Lock()
	cp := res
	sess.validation = &cp
	sess.mu.Unlock()
	sess.emit(Event{Type: EventValidation, At: o.now(), Success: res.Success, Error: res.Error})
	return res
}

func (o *Orchestrator) storeTransformation(sess *Session, res model.TransformationResult) model.TransformationResult {
	sess.mu.Lock()
	cp := res
	sess.transformation = &cp
	sess.mu.Unlock()
	sess.emit(Event{Type: EventTransformation, At: o.now(), Success: res.Succeeded(), Error: res.Error})
	return res
}

// reloadAfterAction reloads the action's own history and the global one
// concurrently. Load failures stay visible in the stores, which log them.
func (o *Orchestrator) reloadAfterAction(ctx context.Context, sess *Session, own model.Category) {
	var g errgroup.Group
	for _, c := range []model.Category{own, model.CategoryGlobal} {
		v, ok := sess.View(c)
		if !ok {
			continue
		}
		g.Go(func() error {
			_ = v.Store.Reload(ctx)
			return nil
		})
	}
	_ = g.Wait()
}

func errorText(err error) string {
	if err == nil {
		return ""
	}
	if msg := err.Error(); msg != "" {
		return msg
	}
	return MsgConnectionErr
}
