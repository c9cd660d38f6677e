package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
)

const maxDreamLen = 2000

// readDreamFile loads a dream description from a text or PDF file and
// collapses its whitespace.
func readDreamFile(path string) (string, error) {
	var text string
	if strings.EqualFold(filepath.Ext(path), ".pdf") {
		t, err := readPDFText(path)
		if err != nil {
			return "", err
		}
		text = t
	} else {
		data, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("reading dream file: %w", err)
		}
		text = string(data)
	}

	text = strings.Join(strings.Fields(text), " ")
	if text == "" {
		return "", fmt.Errorf("dream file %s contains no text", path)
	}
	if r := []rune(text); len(r) > maxDreamLen {
		text = string(r[:maxDreamLen])
	}
	return text, nil
}

func readPDFText(path string) (string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("opening pdf: %w", err)
	}
	defer f.Close()

	plain, err := r.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("extracting pdf text: %w", err)
	}
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(plain); err != nil {
		return "", fmt.Errorf("reading pdf text: %w", err)
	}
	return buf.String(), nil
}
