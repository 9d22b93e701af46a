package nasdaq

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"enterprise_backend/internal/feature/symbols/usecase"
)

// symbolColumns はシンボル列として認識するヘッダー名です（優先順）。
var symbolColumns = []string{"NASDAQ Symbol", "Symbol"}

// footerPrefix はファイル末尾の作成日時行の接頭辞です。
const footerPrefix = "File Creation Time"

// Source はNasdaq Traderのシンボルディレクトリを取得するSymbolSource実装です。
type Source struct {
	cfg    Config
	client *http.Client
}

// SourceがSymbolSourceを実装していることをコンパイル時に検証します。
var _ usecase.SymbolSource = (*Source)(nil)

// NewSource は指定された設定とHTTPクライアントでSourceを生成します。
func NewSource(cfg Config, client *http.Client) *Source {
	return &Source{cfg: cfg, client: client}
}

// Fetch はディレクトリファイルをダウンロードし、上場中のシンボルコードを返します。
func (s *Source) Fetch(ctx context.Context) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.cfg.URL, nil)
	if err != nil {
		return nil, err
	}

	res, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := res.Body.Close(); err != nil {
			slog.Warn("failed to close response body", "error", err)
		}
	}()

	if res.StatusCode >= 400 {
		return nil, fmt.Errorf("nasdaq http %d", res.StatusCode)
	}

	return parseDirectory(res.Body)
}

// parseDirectory はパイプ区切りのディレクトリファイルを解析します。
func parseDirectory(r io.Reader) ([]string, error) {
	cr := csv.NewReader(r)
	cr.Comma = '|'
	cr.LazyQuotes = true
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("nasdaq: empty symbol directory")
		}
		return nil, fmt.Errorf("nasdaq: read header: %w", err)
	}

	col := -1
	for _, name := range symbolColumns {
		for i, h := range header {
			if strings.TrimSpace(h) == name {
				col = i
				break
			}
		}
		if col >= 0 {
			break
		}
	}
	if col < 0 {
		return nil, errors.New("nasdaq: symbol column not found")
	}

	var codes []string
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("nasdaq: read record: %w", err)
		}
		if len(rec) > 0 && strings.HasPrefix(rec[0], footerPrefix) {
			continue
		}
		if col >= len(rec) {
			continue
		}
		code := strings.TrimSpace(rec[col])
		if code == "" {
			continue
		}
		codes = append(codes, code)
	}
	return codes, nil
}
