package s3archive

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/shopspring/decimal"

	"github.com/fd1az/arbitrage-evaluator/business/arbitrage/domain"
	"github.com/fd1az/arbitrage-evaluator/internal/apperror"
)

type mockLogger struct{}

func (m *mockLogger) Debug(ctx context.Context, msg string, args ...any)              {}
func (m *mockLogger) Info(ctx context.Context, msg string, args ...any)               {}
func (m *mockLogger) Warn(ctx context.Context, msg string, args ...any)               {}
func (m *mockLogger) Error(ctx context.Context, msg string, args ...any)              {}
func (m *mockLogger) Debugc(ctx context.Context, caller int, msg string, args ...any) {}
func (m *mockLogger) Infoc(ctx context.Context, caller int, msg string, args ...any)  {}
func (m *mockLogger) Warnc(ctx context.Context, caller int, msg string, args ...any)  {}
func (m *mockLogger) Errorc(ctx context.Context, caller int, msg string, args ...any) {}

type fakeUploader struct {
	inputs []*s3.PutObjectInput
	bodies [][]byte
	err    error
}

func (f *fakeUploader) Upload(ctx context.Context, in *s3.PutObjectInput, opts ...func(*manager.Uploader)) (*manager.UploadOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	body, _ := io.ReadAll(in.Body)
	f.inputs = append(f.inputs, in)
	f.bodies = append(f.bodies, body)
	return &manager.UploadOutput{}, nil
}

type fakeHeader struct{ err error }

func (f fakeHeader) HeadBucket(ctx context.Context, in *s3.HeadBucketInput, opts ...func(*s3.Options)) (*s3.HeadBucketOutput, error) {
	return &s3.HeadBucketOutput{}, f.err
}

func sampleReport() *domain.Report {
	return &domain.Report{
		ID:        "0b6f",
		Timestamp: time.Date(2025, 3, 9, 23, 30, 0, 0, time.FixedZone("ART", -3*3600)),
		Result: &domain.Result{
			FinalValue:       decimal.RequireFromString("1028.65"),
			NetSpreadPercent: decimal.RequireFromString("2.87"),
			Diagnosis:        domain.Positive,
		},
	}
}

func TestKey(t *testing.T) {
	tests := []struct {
		prefix string
		want   string
	}{
		{"evaluations", "evaluations/2025/03/10/0b6f.jsonl"},
		{"", "2025/03/10/0b6f.jsonl"},
		{"a/b/", "a/b/2025/03/10/0b6f.jsonl"},
	}
	for _, tt := range tests {
		if got := Key(tt.prefix, sampleReport()); got != tt.want {
			t.Errorf("Key(%q) = %q, want %q", tt.prefix, got, tt.want)
		}
	}
}

func TestArchive_Store(t *testing.T) {
	up := &fakeUploader{}
	a := newArchive(up, fakeHeader{}, "reports", "evaluations", &mockLogger{})

	if err := a.Store(context.Background(), sampleReport()); err != nil {
		t.Fatalf("Store: %v", err)
	}
	if len(up.inputs) != 1 {
		t.Fatalf("uploads = %d, want 1", len(up.inputs))
	}

	in := up.inputs[0]
	if *in.Bucket != "reports" || *in.Key != "evaluations/2025/03/10/0b6f.jsonl" {
		t.Errorf("bucket/key = %s/%s", *in.Bucket, *in.Key)
	}
	if *in.ContentType != contentType {
		t.Errorf("content type = %s", *in.ContentType)
	}

	body := up.bodies[0]
	if bytes.Count(body, []byte("\n")) != 1 || body[len(body)-1] != '\n' {
		t.Errorf("body is not a single JSONL line: %q", body)
	}
	var decoded struct {
		ID     string `json:"id"`
		Result struct {
			Diagnosis string `json:"diagnosis"`
		} `json:"result"`
	}
	if err := json.Unmarshal(body, &decoded); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if decoded.ID != "0b6f" || decoded.Result.Diagnosis != "Positive" {
		t.Errorf("decoded = %+v", decoded)
	}
}

func TestArchive_StoreFailure(t *testing.T) {
	a := newArchive(&fakeUploader{err: errors.New("access denied")}, fakeHeader{}, "reports", "", &mockLogger{})

	err := a.Store(context.Background(), sampleReport())
	if !apperror.IsCode(err, apperror.CodeArchiveFailed) {
		t.Errorf("err = %v, want %s", err, apperror.CodeArchiveFailed)
	}
}

func TestArchive_Ping(t *testing.T) {
	if err := newArchive(&fakeUploader{}, fakeHeader{}, "b", "", &mockLogger{}).Ping(context.Background()); err != nil {
		t.Errorf("Ping: %v", err)
	}
	err := newArchive(&fakeUploader{}, fakeHeader{err: errors.New("no such bucket")}, "b", "", &mockLogger{}).Ping(context.Background())
	if !apperror.IsCode(err, apperror.CodeArchiveFailed) {
		t.Errorf("err = %v, want %s", err, apperror.CodeArchiveFailed)
	}
}

func TestNew_RequiresBucket(t *testing.T) {
	if _, err := New(context.Background(), Config{}, &mockLogger{}); err == nil {
		t.Error("expected error without bucket")
	}
}
