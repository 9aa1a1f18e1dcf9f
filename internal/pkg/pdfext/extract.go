package pdfext

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
	"k8s.io/klog/v2"
)

// MaxPDFSize caps uploads at 15 MB.
const MaxPDFSize = 15 * 1024 * 1024

var (
	ErrTooLarge = fmt.Errorf("PDF too large, maximum size is %d MB", MaxPDFSize/1024/1024)
	ErrNoText   = errors.New("no text could be extracted from the PDF")
)

// ExtractText pulls plain text out of a PDF, page by page.
func ExtractText(data []byte) (string, error) {
	if len(data) > MaxPDFSize {
		return "", ErrTooLarge
	}

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("parse PDF: %w", err)
	}

	var sb strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			klog.V(6).Infof("skipping page %d: %v", i, err)
			continue
		}
		sb.WriteString(text)
		sb.WriteString("\n")
	}

	text := strings.TrimSpace(sb.String())
	if text == "" {
		return "", ErrNoText
	}
	return text, nil
}
