package catalog

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// Source rows are comma separated, UTF-8, with a header row that is skipped.

func newReader(r io.Reader) *csv.Reader {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	return reader
}

// eachRecord calls fn for every row after the header, with the row's line number.
func eachRecord(r io.Reader, fn func(line int, header, fields []string) error) error {
	reader := newReader(r)
	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("failed to read header: %w", err)
	}
	for {
		fields, err := reader.Read()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read record: %w", err)
		}
		line, _ := reader.FieldPos(0)
		for i := range fields {
			fields[i] = strings.TrimSpace(fields[i])
		}
		if err := fn(line, header, fields); err != nil {
			return err
		}
	}
}

// LoadIdentities parses `name, feature_1, ..., feature_n` rows. Every row has the
// header's width; trailing feature columns may be left empty.
func LoadIdentities(r io.Reader) ([]Identity, error) {
	identities := []Identity{}
	err := eachRecord(r, func(line int, header, fields []string) error {
		if len(header) < 2 {
			return &MalformedRecordError{Line: 1, Fields: len(header), Reason: "header needs a name and at least one feature column"}
		}
		if len(fields) != len(header) {
			return &MalformedRecordError{Line: line, Fields: len(fields), Reason: fmt.Sprintf("expected %d fields like the header", len(header))}
		}
		id, err := NewIdentity(fields[0], fields[1:]...)
		if err != nil {
			var malformed *MalformedRecordError
			if errors.As(err, &malformed) {
				malformed.Line = line
			}
			return err
		}
		identities = append(identities, id)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return identities, nil
}

// parseEntry splits `name, question_1, answer_1, ...` into an Entry.
func parseEntry(line int, fields []string) (Entry, error) {
	if len(fields) < 3 || len(fields)%2 == 0 {
		return Entry{}, &MalformedRecordError{Line: line, Fields: len(fields), Reason: "expected a name followed by question/answer pairs"}
	}
	pairs := (len(fields) - 1) / 2
	e := Entry{
		Name:      fields[0],
		Questions: make([]string, 0, pairs),
		Answers:   make([]string, 0, pairs),
		Line:      line,
	}
	for i := 0; i < pairs; i++ {
		e.Questions = append(e.Questions, fields[2*i+1])
		e.Answers = append(e.Answers, fields[2*i+2])
	}
	return e, nil
}

// Load parses question/answer rows into a Catalog.
func Load(r io.Reader) (*Catalog, error) {
	entries := []Entry{}
	err := eachRecord(r, func(line int, _, fields []string) error {
		e, err := parseEntry(line, fields)
		if err != nil {
			return err
		}
		entries = append(entries, e)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return New(entries...)
}

// Questions derives the ordered question universe from the first record of a
// question/answer source.
func Questions(r io.Reader) ([]string, error) {
	var questions []string
	errDone := errors.New("done")
	err := eachRecord(r, func(line int, _, fields []string) error {
		e, err := parseEntry(line, fields)
		if err != nil {
			return err
		}
		questions = e.Questions
		return errDone
	})
	if err != nil && !errors.Is(err, errDone) {
		return nil, err
	}
	if questions == nil {
		return nil, errors.New("no records to derive questions from")
	}
	return questions, nil
}

// LoadIdentitiesFile opens path and calls LoadIdentities.
func LoadIdentitiesFile(path string) ([]Identity, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open identities file: %w", err)
	}
	defer f.Close()
	return LoadIdentities(f)
}

// LoadFile opens path and calls Load.
func LoadFile(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog file: %w", err)
	}
	defer f.Close()
	return Load(f)
}

// QuestionsFile opens path and calls Questions.
func QuestionsFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog file: %w", err)
	}
	defer f.Close()
	return Questions(f)
}
