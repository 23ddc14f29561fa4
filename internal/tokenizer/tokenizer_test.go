package tokenizer

import (
	"errors"
	"testing"
)

type fixedCounter struct {
	tokens int
	err    error
}

func (counter fixedCounter) Name() string { return "fixed" }

func (counter fixedCounter) CountString(string) (int, error) {
	return counter.tokens, counter.err
}

func TestCountDocumentDelegatesToCounter(t *testing.T) {
	tokens, err := CountDocument(fixedCounter{tokens: 42}, "# Table of Contents")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tokens != 42 {
		t.Fatalf("expected 42 tokens, got %d", tokens)
	}
}

func TestCountDocumentPropagatesErrors(t *testing.T) {
	failure := errors.New("encoder failure")
	if _, err := CountDocument(fixedCounter{err: failure}, "text"); !errors.Is(err, failure) {
		t.Fatalf("expected encoder failure, got %v", err)
	}
}

func TestCountDocumentRejectsNilCounter(t *testing.T) {
	if _, err := CountDocument(nil, "text"); !errors.Is(err, errNilCounter) {
		t.Fatalf("expected nil counter error, got %v", err)
	}
}

func TestOpenAICounterRejectsMissingEncoding(t *testing.T) {
	if _, err := (openAICounter{name: "empty"}).CountString("text"); err == nil {
		t.Fatalf("expected an error without an encoding")
	}
}
