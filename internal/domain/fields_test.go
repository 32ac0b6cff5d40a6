package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFieldMap_Mentioned(t *testing.T) {
	m := DefaultFieldMap()

	tests := []struct {
		name  string
		msg   string
		want  Field
		found bool
	}{
		{name: "longest name wins", msg: "已付金額 is expected to be number.", want: FieldPaid, found: true},
		{name: "plain amount", msg: "金額 is expected to be number.", want: FieldAmount, found: true},
		{name: "select", msg: "Invalid select option for 付款狀態", want: FieldPaymentStatus, found: true},
		{name: "nothing", msg: "body failed validation", found: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := m.Mentioned(tt.msg)
			assert.Equal(t, tt.found, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFieldMap_WithOverrides(t *testing.T) {
	base := DefaultFieldMap()

	got, err := base.WithOverrides(" customer = 客人 ,amount=總額,")
	require.NoError(t, err)
	assert.Equal(t, "客人", got.Property(FieldCustomer))
	assert.Equal(t, "總額", got.Property(FieldAmount))
	assert.Equal(t, "客人名稱", base.Property(FieldCustomer), "base map is not modified")

	f, ok := got.FieldFor("總額")
	assert.True(t, ok)
	assert.Equal(t, FieldAmount, f)

	for _, bad := range []string{"customer", "colour=顏色", "memo="} {
		_, err := base.WithOverrides(bad)
		assert.Error(t, err, bad)
	}
}

func TestField_Kind(t *testing.T) {
	assert.Equal(t, KindText, FieldCustomer.Kind())
	assert.Equal(t, KindNumber, FieldPaid.Kind())
	assert.Equal(t, KindSelect, FieldLogistics.Kind())
	assert.Equal(t, KindUniqueID, FieldShortID.Kind())
	assert.Equal(t, FieldKind(""), Field("nope").Kind())

	for f := range DefaultFieldMap() {
		assert.NotEmpty(t, f.Kind(), "field %s has no kind", f)
	}
}
