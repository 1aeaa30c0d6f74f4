package store_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/AntonStoeckl/library-lending-go/store"
)

func Test_Filter_Builders(t *testing.T) {
	tests := []struct {
		name     string
		build    func() store.Filter
		validate func(t *testing.T, f store.Filter)
	}{
		{
			name:  "all_matches_every_row_without_window",
			build: store.All,
			validate: func(t *testing.T, f store.Filter) {
				assert.Empty(t, f.Conditions())
				assert.False(t, f.Windowed())
				assert.False(t, f.ForUpdate())
			},
		},
		{
			name: "by_key_uses_identifier_column",
			build: func() store.Filter {
				return store.ByKey(store.KindLoan, 42)
			},
			validate: func(t *testing.T, f store.Filter) {
				assert.Len(t, f.Conditions(), 1)
				assert.Equal(t, store.ColLoanID, f.Conditions()[0].Column())
				assert.Equal(t, store.OpEq, f.Conditions()[0].Operator())
				assert.Equal(t, int64(42), f.Conditions()[0].Value())
			},
		},
		{
			name: "window_with_zero_limit_defaults_to_hundred",
			build: func() store.Filter {
				return store.All().Window(10, 0)
			},
			validate: func(t *testing.T, f store.Filter) {
				assert.True(t, f.Windowed())
				assert.Equal(t, uint(10), f.Offset())
				assert.Equal(t, uint(store.DefaultLimit), f.Limit())
			},
		},
		{
			name: "conditions_accumulate_and_lock_is_kept",
			build: func() store.Filter {
				return store.Where(store.Eq(store.ColMemberID, int64(1))).
					And(store.IsNull(store.ColReturnDate)).
					Locked()
			},
			validate: func(t *testing.T, f store.Filter) {
				assert.Len(t, f.Conditions(), 2)
				assert.Equal(t, store.OpIsNull, f.Conditions()[1].Operator())
				assert.True(t, f.ForUpdate())
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.validate(t, tt.build())
		})
	}
}

func Test_Filter_And_DoesNotMutateOriginal(t *testing.T) {
	// arrange
	base := store.Where(store.Eq(store.ColBookID, int64(7)))

	// act
	first := base.And(store.IsNull(store.ColReturnDate))
	second := base.And(store.IsNotNull(store.ColReturnDate))

	// assert
	assert.Len(t, base.Conditions(), 1)
	assert.Equal(t, store.OpIsNull, first.Conditions()[1].Operator())
	assert.Equal(t, store.OpIsNotNull, second.Conditions()[1].Operator())
}
