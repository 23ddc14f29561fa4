package cli

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/temirov/mdtoc/internal/tokenizer"
	"github.com/temirov/mdtoc/internal/types"
	"github.com/temirov/mdtoc/internal/utils"
)

type stubCounter struct{}

func (stubCounter) Name() string { return "stub" }

func (stubCounter) CountString(input string) (int, error) {
	return len(strings.Fields(input)), nil
}

type recordingCopier struct {
	copied string
}

func (copier *recordingCopier) Copy(text string) error {
	copier.copied = text
	return nil
}

type commandFixture struct {
	workingDirectory string
	homeDirectory    string
	rootDirectory    string
	standardOutput   *bytes.Buffer
	copier           *recordingCopier
}

func newCommandFixture(t *testing.T) commandFixture {
	t.Helper()
	workingDirectory := t.TempDir()
	rootDirectory := filepath.Join(workingDirectory, "docs")
	writeFixtureFile(t, filepath.Join(rootDirectory, "a.md"), "a")
	writeFixtureFile(t, filepath.Join(rootDirectory, "b_two.md"), "b")
	writeFixtureFile(t, filepath.Join(rootDirectory, "sub", "c.md"), "c")
	writeFixtureFile(t, filepath.Join(rootDirectory, ".hidden"), "h")
	writeFixtureFile(t, filepath.Join(rootDirectory, "ignore.me"), "i")
	return commandFixture{
		workingDirectory: workingDirectory,
		homeDirectory:    t.TempDir(),
		rootDirectory:    rootDirectory,
		standardOutput:   &bytes.Buffer{},
		copier:           &recordingCopier{},
	}
}

func (fixture commandFixture) execute(arguments ...string) error {
	command := NewRootCommand(Dependencies{
		Copier: fixture.copier,
		NewCounter: func(model string) (tokenizer.Counter, string, error) {
			return stubCounter{}, model, nil
		},
		HomeDirectory: fixture.homeDirectory,
		WorkDirectory: fixture.workingDirectory,
	})
	command.SetOut(fixture.standardOutput)
	command.SetErr(io.Discard)
	command.SetArgs(normalizeOutputDirectoryArguments(arguments))
	return command.Execute()
}

func writeFixtureFile(t *testing.T, path string, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func readFixtureFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return string(content)
}

func TestRootCommandWritesTableOfContentsInPlace(t *testing.T) {
	fixture := newCommandFixture(t)
	if err := fixture.execute("docs", "-t", "-i", "ignore.me"); err != nil {
		t.Fatalf("execute: %v", err)
	}

	document := readFixtureFile(t, filepath.Join(fixture.rootDirectory, types.DefaultOutputFileName+types.MarkdownExtension))
	expected := strings.Join([]string{
		types.TableOfContentsTitle,
		"",
		"- 1. [A](" + filepath.Join(fixture.rootDirectory, "a.md") + ")",
		"- 2. [B two](" + filepath.Join(fixture.rootDirectory, "b_two.md") + ")",
		"- 3. [SUB/](" + filepath.Join(fixture.rootDirectory, "sub") + "/)",
		"  - 3.1. [C](" + filepath.Join(fixture.rootDirectory, "sub", "c.md") + ")",
	}, "\n")
	if document != expected {
		t.Fatalf("unexpected document:\n%s\nexpected:\n%s", document, expected)
	}
	if !strings.Contains(fixture.standardOutput.String(), fixture.rootDirectory) {
		t.Fatalf("summary does not name the root: %s", fixture.standardOutput.String())
	}
}

func TestRootCommandRerunWithExcludedOutputIsIdempotent(t *testing.T) {
	fixture := newCommandFixture(t)
	tocPath := filepath.Join(fixture.rootDirectory, types.DefaultOutputFileName+types.MarkdownExtension)
	if err := fixture.execute("docs", "-t", "--exclude-output-file"); err != nil {
		t.Fatalf("first execute: %v", err)
	}
	first := readFixtureFile(t, tocPath)
	if err := fixture.execute("docs", "-t", "--exclude-output-file"); err != nil {
		t.Fatalf("second execute: %v", err)
	}
	if second := readFixtureFile(t, tocPath); second != first {
		t.Fatalf("document changed between runs:\n%s\n---\n%s", first, second)
	}
}

func TestRootCommandMirrorsToDefaultDestination(t *testing.T) {
	fixture := newCommandFixture(t)
	if err := fixture.execute("docs", "-o", "-t", "-i", "ignore.me"); err != nil {
		t.Fatalf("execute: %v", err)
	}

	destination := fixture.rootDirectory + types.DefaultMirrorSuffix
	if _, err := os.Stat(filepath.Join(destination, "sub", "c.md")); err != nil {
		t.Fatalf("expected mirrored file: %v", err)
	}
	for _, excluded := range []string{"ignore.me", ".hidden"} {
		if _, err := os.Stat(filepath.Join(destination, excluded)); !os.IsNotExist(err) {
			t.Fatalf("expected %s to be excluded from the mirror, got %v", excluded, err)
		}
	}
	document := readFixtureFile(t, filepath.Join(destination, types.DefaultOutputFileName+types.MarkdownExtension))
	if !strings.Contains(document, "("+filepath.Join(destination, "a.md")+")") {
		t.Fatalf("expected links into the mirror, got:\n%s", document)
	}
	if _, err := os.Stat(filepath.Join(fixture.rootDirectory, types.DefaultOutputFileName+types.MarkdownExtension)); !os.IsNotExist(err) {
		t.Fatalf("root must not receive a table of contents, got %v", err)
	}
}

func TestRootCommandMirrorsToExplicitDestinationWithCustomName(t *testing.T) {
	fixture := newCommandFixture(t)
	if err := fixture.execute("docs", "--output-dir", "copy", "-t", "-f", "Index"); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if _, err := os.Stat(filepath.Join(fixture.workingDirectory, "copy", "Index.md")); err != nil {
		t.Fatalf("expected Index.md in the destination: %v", err)
	}
}

func TestRootCommandRefusesExistingDestination(t *testing.T) {
	fixture := newCommandFixture(t)
	existing := filepath.Join(fixture.workingDirectory, "existing")
	writeFixtureFile(t, filepath.Join(existing, "keep.txt"), "keep")

	err := fixture.execute("docs", "-o", "existing", "-t")
	if !errors.Is(err, types.ErrDestinationExists) {
		t.Fatalf("expected ErrDestinationExists, got %v", err)
	}
	if _, statErr := os.Stat(filepath.Join(existing, types.DefaultOutputFileName+types.MarkdownExtension)); !os.IsNotExist(statErr) {
		t.Fatalf("destination must stay untouched, got %v", statErr)
	}
}

func TestRootCommandRejectsInvalidRoot(t *testing.T) {
	fixture := newCommandFixture(t)
	err := fixture.execute("missing", "-t")
	if !errors.Is(err, types.ErrInvalidRoot) {
		t.Fatalf("expected ErrInvalidRoot, got %v", err)
	}
}

func TestRootCommandRequiresRootArgument(t *testing.T) {
	fixture := newCommandFixture(t)
	if err := fixture.execute("-t"); err == nil {
		t.Fatalf("expected an error without a root argument")
	}
}

func TestRootCommandWithoutTocFlagWritesNothing(t *testing.T) {
	fixture := newCommandFixture(t)
	if err := fixture.execute("docs"); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if _, err := os.Stat(filepath.Join(fixture.rootDirectory, types.DefaultOutputFileName+types.MarkdownExtension)); !os.IsNotExist(err) {
		t.Fatalf("expected no table of contents, got %v", err)
	}
}

func TestRootCommandReadsIgnoreFile(t *testing.T) {
	fixture := newCommandFixture(t)
	writeFixtureFile(t, filepath.Join(fixture.rootDirectory, utils.IgnoreFileName), "# drafts\nignore.me\n")
	if err := fixture.execute("docs", "-t"); err != nil {
		t.Fatalf("execute: %v", err)
	}
	document := readFixtureFile(t, filepath.Join(fixture.rootDirectory, types.DefaultOutputFileName+types.MarkdownExtension))
	if strings.Contains(document, "Ignore.me") || strings.Contains(document, "ignore.me") {
		t.Fatalf("expected ignore file entries to apply:\n%s", document)
	}

	if err := fixture.execute("docs", "-t", "--no-ignore-file"); err != nil {
		t.Fatalf("execute: %v", err)
	}
	document = readFixtureFile(t, filepath.Join(fixture.rootDirectory, types.DefaultOutputFileName+types.MarkdownExtension))
	if !strings.Contains(document, "ignore.me") {
		t.Fatalf("expected ignore file to be skipped:\n%s", document)
	}
}

func TestRootCommandAppliesConfigurationWithFlagPrecedence(t *testing.T) {
	fixture := newCommandFixture(t)
	writeFixtureFile(t, filepath.Join(fixture.workingDirectory, utils.ConfigFileName), strings.Join([]string{
		"toc:",
		"  generate: true",
		"  output_filename: Index",
		"  ignore:",
		"    - ignore.me",
	}, "\n"))

	if err := fixture.execute("docs"); err != nil {
		t.Fatalf("execute: %v", err)
	}
	document := readFixtureFile(t, filepath.Join(fixture.rootDirectory, "Index.md"))
	if strings.Contains(document, "ignore.me") {
		t.Fatalf("expected configured ignore entries to apply:\n%s", document)
	}

	if err := fixture.execute("docs", "-f", "Other"); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if _, err := os.Stat(filepath.Join(fixture.rootDirectory, "Other.md")); err != nil {
		t.Fatalf("expected the flag to override the configured file name: %v", err)
	}
}

func TestRootCommandCopiesAndCountsTokens(t *testing.T) {
	fixture := newCommandFixture(t)
	if err := fixture.execute("docs", "-t", "--copy", "--tokens", "--model", "stub-model"); err != nil {
		t.Fatalf("execute: %v", err)
	}
	document := readFixtureFile(t, filepath.Join(fixture.rootDirectory, types.DefaultOutputFileName+types.MarkdownExtension))
	if fixture.copier.copied != document {
		t.Fatalf("expected the document on the clipboard, got %q", fixture.copier.copied)
	}
	if !strings.Contains(fixture.standardOutput.String(), "stub-model") {
		t.Fatalf("expected the token model in the summary: %s", fixture.standardOutput.String())
	}
}

func TestRootCommandPrintsVersion(t *testing.T) {
	fixture := newCommandFixture(t)
	if err := fixture.execute("--version"); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if !strings.HasPrefix(fixture.standardOutput.String(), "mdtoc version: ") {
		t.Fatalf("unexpected version output: %q", fixture.standardOutput.String())
	}
}

func TestInitCommandWritesConfiguration(t *testing.T) {
	fixture := newCommandFixture(t)
	if err := fixture.execute("init"); err != nil {
		t.Fatalf("init: %v", err)
	}
	configurationPath := filepath.Join(fixture.workingDirectory, utils.ConfigFileName)
	if _, err := os.Stat(configurationPath); err != nil {
		t.Fatalf("expected configuration file: %v", err)
	}
	if err := fixture.execute("init"); err == nil {
		t.Fatalf("expected init to refuse an existing configuration")
	}
	if err := fixture.execute("init", "--force"); err != nil {
		t.Fatalf("init --force: %v", err)
	}
	if err := fixture.execute("init", "--global"); err != nil {
		t.Fatalf("init --global: %v", err)
	}
	if _, err := os.Stat(filepath.Join(fixture.homeDirectory, utils.GlobalConfigDirectoryName, utils.ConfigFileName)); err != nil {
		t.Fatalf("expected global configuration file: %v", err)
	}
}

func TestRootCommandRerunListsPreviousOutput(t *testing.T) {
	fixture := newCommandFixture(t)
	tocPath := filepath.Join(fixture.rootDirectory, types.DefaultOutputFileName+types.MarkdownExtension)
	for attempt := 0; attempt < 2; attempt++ {
		if err := fixture.execute("docs", "-t"); err != nil {
			t.Fatalf("execute %d: %v", attempt, err)
		}
	}
	if document := readFixtureFile(t, tocPath); !strings.Contains(document, "[Toc]("+tocPath+")") {
		t.Fatalf("expected the previous output to be listed:\n%s", document)
	}
}

func TestRootCommandIgnoresNamesContainingCommas(t *testing.T) {
	fixture := newCommandFixture(t)
	writeFixtureFile(t, filepath.Join(fixture.rootDirectory, "a,b.md"), "comma")
	if err := fixture.execute("docs", "-t", "-i", "a,b.md", "-i", "ignore.me"); err != nil {
		t.Fatalf("execute: %v", err)
	}
	document := readFixtureFile(t, filepath.Join(fixture.rootDirectory, types.DefaultOutputFileName+types.MarkdownExtension))
	for _, excluded := range []string{"a,b.md", "ignore.me"} {
		if strings.Contains(document, excluded) {
			t.Fatalf("expected %s to be ignored:\n%s", excluded, document)
		}
	}
}

func TestRootCommandRejectsIgnoredRootAsTyped(t *testing.T) {
	fixture := newCommandFixture(t)
	err := fixture.execute("docs", "-t", "-i", "docs", "--reject-ignored-paths")
	if !errors.Is(err, types.ErrIgnoredPathRejected) {
		t.Fatalf("expected ErrIgnoredPathRejected, got %v", err)
	}

	err = fixture.execute("docs", "-o", "-i", "docs_output_copy", "--reject-ignored-paths")
	if !errors.Is(err, types.ErrIgnoredPathRejected) {
		t.Fatalf("expected the default destination to be rejected, got %v", err)
	}
	if _, statErr := os.Stat(fixture.rootDirectory + types.DefaultMirrorSuffix); !os.IsNotExist(statErr) {
		t.Fatalf("rejected destination must not be created, got %v", statErr)
	}
}
