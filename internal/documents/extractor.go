package documents

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"procurechain_backend/internal/logger"

	"github.com/unidoc/unipdf/v3/extractor"
	pdfmodel "github.com/unidoc/unipdf/v3/model"
)

// ExtractText достает текст из загруженного файла по расширению.
// PDF разбирается постранично, упавшие страницы пропускаются.
// Типы без текстового содержимого возвращают пустую строку без ошибки.
func ExtractText(ctx context.Context, path string) (string, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	switch ext {
	case "pdf":
		return extractPDF(ctx, path)
	case "txt":
		data, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("read text file: %w", err)
		}
		return string(data), nil
	default:
		return "", nil
	}
}

func extractPDF(ctx context.Context, path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read pdf: %w", err)
	}

	reader, err := pdfmodel.NewPdfReader(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}

	numPages, err := reader.GetNumPages()
	if err != nil {
		return "", fmt.Errorf("pdf page count: %w", err)
	}

	var builder strings.Builder
	for i := 1; i <= numPages; i++ {
		page, err := reader.GetPage(i)
		if err != nil {
			logger.CtxWarn(ctx, "skipping unreadable pdf page", "page", i, "error", err)
			continue
		}
		ex, err := extractor.New(page)
		if err != nil {
			logger.CtxWarn(ctx, "skipping pdf page, extractor init failed", "page", i, "error", err)
			continue
		}
		text, err := ex.ExtractText()
		if err != nil {
			logger.CtxWarn(ctx, "skipping pdf page, extraction failed", "page", i, "error", err)
			continue
		}
		builder.WriteString(text)
		builder.WriteString("\n")
	}

	return builder.String(), nil
}
