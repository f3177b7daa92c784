package commands

import (
	"context"
	"errors"
	"testing"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	goerrors "github.com/goliatone/go-errors"
)

type renameFile struct {
	ID   string
	Name string
}

func (renameFile) Type() string { return "files.rename" }

func (m renameFile) Validate() error {
	return validation.ValidateStruct(&m,
		validation.Field(&m.ID, validation.Required),
		validation.Field(&m.Name, validation.Required, validation.Length(1, 255)),
	)
}

var validRename = renameFile{ID: "f-1", Name: "Syllabus"}

func TestHandlerExecuteSuccess(t *testing.T) {
	var got renameFile
	h := NewHandler[renameFile](func(ctx context.Context, msg renameFile) error {
		got = msg
		return nil
	})

	if err := h.Execute(context.Background(), validRename); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if got != validRename {
		t.Fatalf("expected handler to receive %+v, got %+v", validRename, got)
	}
}

func TestHandlerValidationShortCircuitsExecution(t *testing.T) {
	called := false
	h := NewHandler[renameFile](func(ctx context.Context, msg renameFile) error {
		called = true
		return nil
	})

	err := h.Execute(context.Background(), renameFile{ID: "f-1"})
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !goerrors.IsCategory(err, goerrors.CategoryValidation) {
		t.Fatalf("expected validation category, got %v", err)
	}
	if called {
		t.Fatal("expected handler not to run when validation fails")
	}
}

func TestHandlerContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	h := NewHandler[renameFile](func(ctx context.Context, msg renameFile) error {
		called = true
		return nil
	})

	err := h.Execute(ctx, validRename)
	if err == nil {
		t.Fatal("expected context cancellation error")
	}
	if !goerrors.IsCategory(err, goerrors.CategoryCommand) {
		t.Fatalf("expected command category, got %v", err)
	}
	if called {
		t.Fatal("expected handler not to run when context is cancelled")
	}
}

func TestHandlerWrapsExecutionError(t *testing.T) {
	execErr := errors.New("boom")
	h := NewHandler[renameFile](func(ctx context.Context, msg renameFile) error {
		return execErr
	})

	err := h.Execute(context.Background(), validRename)
	if err == nil {
		t.Fatal("expected wrapped execution error")
	}
	if !goerrors.IsCategory(err, goerrors.CategoryCommand) {
		t.Fatalf("expected command category, got %v", err)
	}
	if !goerrors.HasCategory(err, goerrors.CategoryCommand) {
		t.Fatalf("expected command category to propagate, got %v", err)
	}
}

func TestHandlerHonoursTimeoutOption(t *testing.T) {
	h := NewHandler[renameFile](func(ctx context.Context, msg renameFile) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(20 * time.Millisecond):
			return nil
		}
	}, WithTimeout[renameFile](10*time.Millisecond))

	err := h.Execute(context.Background(), validRename)
	if err == nil {
		t.Fatal("expected timeout error")
	}
	if !goerrors.IsCategory(err, goerrors.CategoryCommand) {
		t.Fatalf("expected command category for timeout, got %v", err)
	}
}

func TestHandlerReportsTelemetry(t *testing.T) {
	var infos []TelemetryInfo
	h := NewHandler[renameFile](func(ctx context.Context, msg renameFile) error {
		return errors.New("name already taken")
	},
		WithOperation[renameFile]("files.update"),
		WithTelemetry[renameFile](func(_ context.Context, _ renameFile, info TelemetryInfo) {
			infos = append(infos, info)
		}),
	)

	if err := h.Execute(context.Background(), validRename); err == nil {
		t.Fatal("expected execution error")
	}
	if len(infos) != 1 {
		t.Fatalf("expected one telemetry call, got %d", len(infos))
	}
	info := infos[0]
	if info.Status != TelemetryStatusFailed {
		t.Fatalf("expected failed status, got %s", info.Status)
	}
	if info.Command != "files.rename" || info.Operation != "files.update" {
		t.Fatalf("unexpected telemetry identity %+v", info)
	}
	if !goerrors.IsCategory(info.Error, goerrors.CategoryCommand) {
		t.Fatalf("expected categorized error in telemetry, got %v", info.Error)
	}
}
