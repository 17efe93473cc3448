package catalog_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/oscarfh/bizdesk/internal/catalog"
)

func TestService_Create(t *testing.T) {
	tests := []struct {
		name      string
		params    catalog.CreateParams
		setupMock func(repo *catalog.MockRepository)
		wantErr   string
	}{
		{
			name: "Success",
			params: catalog.CreateParams{
				Name:       "Widget",
				UnitPrice:  decimal.RequireFromString("9.99"),
				TaxPercent: decimal.NewFromInt(23),
			},
			setupMock: func(repo *catalog.MockRepository) {
				repo.EXPECT().CreateItem(gomock.Any(), gomock.Any()).Return(nil)
			},
		},
		{
			name:    "BlankName",
			params:  catalog.CreateParams{Name: "   ", UnitPrice: decimal.NewFromInt(1)},
			wantErr: "item name is required",
		},
		{
			name: "NegativePrice",
			params: catalog.CreateParams{
				Name:      "Widget",
				UnitPrice: decimal.NewFromInt(-1),
			},
			wantErr: "unit price must not be negative",
		},
		{
			name: "TaxOutOfRange",
			params: catalog.CreateParams{
				Name:       "Widget",
				UnitPrice:  decimal.NewFromInt(1),
				TaxPercent: decimal.NewFromInt(150),
			},
			wantErr: "tax percent must be between 0 and 100",
		},
		{
			name: "RepoError",
			params: catalog.CreateParams{
				Name:      "Widget",
				UnitPrice: decimal.NewFromInt(1),
			},
			setupMock: func(repo *catalog.MockRepository) {
				repo.EXPECT().CreateItem(gomock.Any(), gomock.Any()).Return(errors.New("db down"))
			},
			wantErr: "db down",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			repo := catalog.NewMockRepository(ctrl)

			if tt.setupMock != nil {
				tt.setupMock(repo)
			}

			item, err := catalog.NewService(repo).Create(context.Background(), tt.params)

			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, "Widget", item.Name)
		})
	}
}

func TestService_CreateBatch(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := catalog.NewMockRepository(ctrl)

	repo.EXPECT().CreateItems(gomock.Any(), gomock.Len(2)).Return(nil)

	items, err := catalog.NewService(repo).CreateBatch(context.Background(), []catalog.CreateParams{
		{Name: "Widget", UnitPrice: decimal.NewFromInt(10)},
		{Name: "Gadget", UnitPrice: decimal.NewFromInt(20)},
	})
	require.NoError(t, err)
	require.Len(t, items, 2)
}

func TestService_CreateBatch_Empty(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := catalog.NewMockRepository(ctrl)

	items, err := catalog.NewService(repo).CreateBatch(context.Background(), nil)
	require.NoError(t, err)
	assert.Nil(t, items)
}

func TestService_CreateBatch_BadRowNamesIndex(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := catalog.NewMockRepository(ctrl)

	_, err := catalog.NewService(repo).CreateBatch(context.Background(), []catalog.CreateParams{
		{Name: "Widget", UnitPrice: decimal.NewFromInt(10)},
		{Name: "", UnitPrice: decimal.NewFromInt(20)},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "item 1:")
}

func TestService_Suggest(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := catalog.NewMockRepository(ctrl)

	want := &catalog.Item{Name: "Widget", UnitPrice: decimal.RequireFromString("9.99")}
	repo.EXPECT().FindByName(gomock.Any(), "Widget").Return(want, nil)

	got, err := catalog.NewService(repo).Suggest(context.Background(), "  Widget  ")
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestService_Suggest_NoMatchIsNotAnError(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := catalog.NewMockRepository(ctrl)

	repo.EXPECT().FindByName(gomock.Any(), "Unknown").Return(nil, catalog.ErrNotFound)

	got, err := catalog.NewService(repo).Suggest(context.Background(), "Unknown")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestItem_Line(t *testing.T) {
	item := &catalog.Item{
		Name:       "Widget",
		UnitPrice:  decimal.RequireFromString("9.99"),
		TaxPercent: decimal.NewFromInt(23),
	}

	li := item.Line()

	assert.Equal(t, "Widget", li.Name)
	assert.Equal(t, "1", li.Quantity.String())
	assert.Equal(t, "9.99", li.UnitPrice.String())
	assert.Equal(t, "23", li.TaxPercent.String())
	assert.True(t, li.DiscountPercent.IsZero())
}
