package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/fd1az/arbitrage-evaluator/internal/apperror"
)

func noSleep(delays *[]time.Duration) Sleeper {
	return func(_ context.Context, d time.Duration) error {
		*delays = append(*delays, d)
		return nil
	}
}

func TestExecute(t *testing.T) {
	transient := apperror.Transient("advisory", errors.New("503 Service Unavailable"))
	permanent := apperror.UnknownPair("FOO_USDT")

	tests := []struct {
		name         string
		results      []error
		wantCalls    int
		wantDelays   []time.Duration
		wantCode     apperror.Code
		wantCauseIs  error
		wantNilError bool
	}{
		{
			name:         "succeeds first try",
			results:      []error{nil},
			wantCalls:    1,
			wantNilError: true,
		},
		{
			name:         "recovers after one transient failure",
			results:      []error{transient, nil},
			wantCalls:    2,
			wantDelays:   []time.Duration{2 * time.Second},
			wantNilError: true,
		},
		{
			name:        "permanent transient failure exhausts three attempts",
			results:     []error{transient, transient, transient},
			wantCalls:   3,
			wantDelays:  []time.Duration{2 * time.Second, 4 * time.Second},
			wantCode:    apperror.CodeRetryExhausted,
			wantCauseIs: transient,
		},
		{
			name:      "non-transient error is not retried",
			results:   []error{permanent},
			wantCalls: 1,
			wantCode:  apperror.CodeUnknownPair,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var delays []time.Duration
			calls := 0

			got, err := Execute(context.Background(), func(context.Context) (int, error) {
				err := tt.results[calls]
				calls++
				if err != nil {
					return 0, err
				}
				return 42, nil
			}, WithSleeper(noSleep(&delays)))

			if calls != tt.wantCalls {
				t.Errorf("calls = %d, want %d", calls, tt.wantCalls)
			}
			if len(delays) != len(tt.wantDelays) {
				t.Fatalf("delays = %v, want %v", delays, tt.wantDelays)
			}
			for i := range delays {
				if delays[i] != tt.wantDelays[i] {
					t.Errorf("delay[%d] = %v, want %v", i, delays[i], tt.wantDelays[i])
				}
			}

			if tt.wantNilError {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if got != 42 {
					t.Errorf("result = %d, want 42", got)
				}
				return
			}

			if apperror.GetCode(err) != tt.wantCode {
				t.Errorf("code = %s, want %s", apperror.GetCode(err), tt.wantCode)
			}
			if tt.wantCauseIs != nil && !errors.Is(err, tt.wantCauseIs) {
				t.Errorf("expected %v to wrap the last error", err)
			}
		})
	}
}

func TestExecute_ExhaustedIsNotTransient(t *testing.T) {
	var delays []time.Duration
	_, err := Execute(context.Background(), func(context.Context) (struct{}, error) {
		return struct{}{}, apperror.Transient("x", nil)
	}, WithSleeper(noSleep(&delays)), WithMaxAttempts(2))

	if apperror.IsTransient(err) {
		t.Error("exhausted retry must not be classified as transient")
	}
}

func TestExecute_ContextCancelledDuringWait(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	_, err := Execute(ctx, func(context.Context) (int, error) {
		calls++
		return 0, apperror.Transient("x", nil)
	}, WithExponentialBackoff(time.Hour))

	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}
