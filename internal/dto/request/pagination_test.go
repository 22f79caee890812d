package request

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPaginatedRequest(t *testing.T) {
	tests := []struct {
		name       string
		in         PaginatedRequest
		wantLimit  int
		wantOffset int
	}{
		{name: "defaults", in: PaginatedRequest{}, wantLimit: 10, wantOffset: 0},
		{name: "second page", in: PaginatedRequest{Page: 2, PerPage: 20}, wantLimit: 20, wantOffset: 20},
		{name: "per page capped", in: PaginatedRequest{Page: 3, PerPage: 500}, wantLimit: 100, wantOffset: 200},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantLimit, tt.in.Limit())
			assert.Equal(t, tt.wantOffset, tt.in.Offset())

			n := tt.in.Normalize()
			assert.GreaterOrEqual(t, n.Page, 1)
			assert.Equal(t, tt.wantLimit, n.PerPage)
		})
	}
}
