package gateway

import (
	"testing"

	"github.com/cgkcommerce/delivery-customizer/pkg/recorder"
)

func newTestWriter(t *testing.T, dir string) *recorder.Writer {
	t.Helper()
	w, err := recorder.NewWriter(dir)
	if err != nil {
		t.Fatalf("recorder: %v", err)
	}
	return w
}
