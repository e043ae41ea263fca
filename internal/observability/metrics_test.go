package observability

import (
	"errors"
	"testing"
	"time"

	"github.com/danmuck/pbdecode/internal/testutil/testlog"
	"github.com/danmuck/pbdecode/internal/wire"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog/log"
)

func TestRegisterMetricsAndRecordersAreSafe(t *testing.T) {
	testlog.Start(t)
	RegisterMetrics()
	RegisterMetrics()

	RecordHTTPRequest("pbdecoded", "GET", "/health", 200, 12*time.Millisecond)
	RecordDecode(56, nil)
	RecordDecode(4, &wire.Error{Err: wire.ErrUnimplementedWireType})
	RecordDecode(4, errors.New("boom"))

	log.Debug().Msg("observability/metrics: registration idempotent and recording paths executed")
}

func TestWireMetricsCountDecoderEvents(t *testing.T) {
	testlog.Start(t)
	obs := NewWireMetrics()
	beforeNested := testutil.ToFloat64(wireSpeculations.WithLabelValues("nested"))
	beforeOpaque := testutil.ToFloat64(wireSpeculations.WithLabelValues("opaque"))
	beforeVarint := testutil.ToFloat64(wireFields.WithLabelValues("varint"))

	d := wire.Decoder{Observer: obs}
	// field 1 = "hello", field 2 = {field 1 = 7}
	data := []byte{0x0A, 0x05, 'h', 'e', 'l', 'l', 'o', 0x12, 0x02, 0x08, 0x07}
	if _, err := d.Decode(data); err != nil {
		t.Fatalf("decode: %v", err)
	}

	if got := testutil.ToFloat64(wireSpeculations.WithLabelValues("nested")) - beforeNested; got != 1 {
		t.Fatalf("expected 1 nested guess, got %v", got)
	}
	if got := testutil.ToFloat64(wireSpeculations.WithLabelValues("opaque")) - beforeOpaque; got != 1 {
		t.Fatalf("expected 1 opaque guess, got %v", got)
	}
	if got := testutil.ToFloat64(wireFields.WithLabelValues("varint")) - beforeVarint; got != 1 {
		t.Fatalf("expected 1 varint field, got %v", got)
	}
}
