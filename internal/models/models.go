package models

import (
	"bytes"
	"errors"
	"io"
)

// ErrValidation is the base for errors that are recovered locally and shown
// to the user without starting (or touching) a run.
var ErrValidation = errors.New("validation error")

// WordEntry is a recognized English word paired with its Chinese translation
type WordEntry struct {
	EnglishWord        string `json:"englishWord" yaml:"english_word"`
	ChineseTranslation string `json:"chineseTranslation" yaml:"chinese_translation"`
}

// AnalysisResult is the ordered, deduplicated output of one analysis run
type AnalysisResult []WordEntry

// ImageInput is a user-supplied image owned by the current selection
type ImageInput struct {
	Name     string `json:"name"`
	MIMEType string `json:"mime_type"`

	open func() (io.ReadCloser, error)
}

// NewImageInput builds an ImageInput whose content is read lazily through open.
func NewImageInput(name, mimeType string, open func() (io.ReadCloser, error)) ImageInput {
	return ImageInput{Name: name, MIMEType: mimeType, open: open}
}

// NewImageFromBytes builds an ImageInput backed by an in-memory buffer.
func NewImageFromBytes(name, mimeType string, data []byte) ImageInput {
	return NewImageInput(name, mimeType, func() (io.ReadCloser, error) {
		return io.NopCloser(bytes.NewReader(data)), nil
	})
}

// Open returns a reader over the image content.
func (i ImageInput) Open() (io.ReadCloser, error) {
	if i.open == nil {
		return nil, errors.New("image has no content source")
	}
	return i.open()
}

// Phase is the coarse state of a batch run
type Phase string

const (
	PhaseIdle    Phase = "idle"
	PhaseLoading Phase = "loading"
	PhaseSuccess Phase = "success"
	PhaseEmpty   Phase = "empty"
	PhaseError   Phase = "error"
)

// Terminal reports whether the phase ends a run.
func (p Phase) Terminal() bool {
	return p == PhaseSuccess || p == PhaseEmpty || p == PhaseError
}

// RunState is one of Idle, Loading, Success(Result), Empty or Error(Message).
// Result is only set for Success; Message only for Empty and Error.
type RunState struct {
	Phase   Phase          `json:"phase"`
	Result  AnalysisResult `json:"words,omitempty"`
	Message string         `json:"message,omitempty"`
}

// Idle returns the initial state.
func Idle() RunState {
	return RunState{Phase: PhaseIdle}
}

// Loading returns the state of an active run.
func Loading() RunState {
	return RunState{Phase: PhaseLoading}
}

// Success returns a terminal state holding result.
func Success(result AnalysisResult) RunState {
	return RunState{Phase: PhaseSuccess, Result: result}
}

// Empty returns the terminal state of a run that found no words.
func Empty(message string) RunState {
	return RunState{Phase: PhaseEmpty, Message: message}
}

// Failed returns the terminal state of a run aborted by a fatal error.
func Failed(message string) RunState {
	return RunState{Phase: PhaseError, Message: message}
}
