package mapping

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

type item struct {
	RemoteID string
	Title    string
	Price    decimal.Decimal
	Compare  decimal.NullDecimal
	Position int
	Active   bool
	Tags     datatypes.JSONSlice[string]
	ImageSrc string
	Updated  time.Time
}

func itemTable() Table[item] {
	return NewTable(
		Field("id", "RemoteID", func(i *item) *string { return &i.RemoteID }, ID),
		Field("title", "Title", func(i *item) *string { return &i.Title }, String),
		Field("price", "Price", func(i *item) *decimal.Decimal { return &i.Price }, Decimal),
		Field("compare_at_price", "Compare", func(i *item) *decimal.NullDecimal { return &i.Compare }, NullDecimal),
		Field("position", "Position", func(i *item) *int { return &i.Position }, Int),
		Field("active", "Active", func(i *item) *bool { return &i.Active }, Bool),
		Field("tags", "Tags", func(i *item) *datatypes.JSONSlice[string] { return &i.Tags }, TagList),
		Field("updated_at", "Updated", func(i *item) *time.Time { return &i.Updated }, Time),
		Nested("image", NewTable(
			Field("src", "ImageSrc", func(i *item) *string { return &i.ImageSrc }, String),
		)),
	)
}

func decode(t *testing.T, s string) Record {
	t.Helper()
	dec := json.NewDecoder(bytes.NewBufferString(s))
	dec.UseNumber()
	var rec Record
	require.NoError(t, dec.Decode(&rec))
	return rec
}

func TestApplyCopiesFieldsAndRecursesIntoObjects(t *testing.T) {
	rec := decode(t, `{
		"id": 632910392,
		"title": "IPod Nano",
		"price": "199.00",
		"compare_at_price": null,
		"position": 2,
		"active": true,
		"tags": "Emotive, Flash Memory,,MP3 ",
		"updated_at": "2023-10-03T13:00:00-04:00",
		"image": {"src": "https://cdn.example.com/ipod.jpg"}
	}`)

	var it item
	changes, err := Apply(itemTable(), &it, rec)
	require.NoError(t, err)

	assert.Equal(t, "632910392", it.RemoteID)
	assert.Equal(t, "IPod Nano", it.Title)
	assert.True(t, it.Price.Equal(decimal.RequireFromString("199")))
	assert.False(t, it.Compare.Valid)
	assert.Equal(t, 2, it.Position)
	assert.True(t, it.Active)
	assert.Equal(t, datatypes.JSONSlice[string]{"Emotive", "Flash Memory", "MP3"}, it.Tags)
	assert.Equal(t, "https://cdn.example.com/ipod.jpg", it.ImageSrc)
	assert.True(t, it.Updated.Equal(time.Date(2023, 10, 3, 17, 0, 0, 0, time.UTC)))

	assert.ElementsMatch(t,
		[]string{"RemoteID", "Title", "Price", "Position", "Active", "Tags", "Updated", "ImageSrc"},
		changes.Fields())
}

func TestApplyIsStableForIdenticalRecords(t *testing.T) {
	rec := decode(t, `{"id": 1, "title": "A", "price": 10, "tags": "x", "image": {"src": "s"}}`)

	var it item
	_, err := Apply(itemTable(), &it, rec)
	require.NoError(t, err)

	changes, err := Apply(itemTable(), &it, rec)
	require.NoError(t, err)
	assert.False(t, changes.Any())
}

func TestApplyDetectsSingleFieldChange(t *testing.T) {
	it := item{RemoteID: "1", Title: "A"}

	changes, err := Apply(itemTable(), &it, decode(t, `{"id": 1, "title": "B"}`))
	require.NoError(t, err)

	assert.Equal(t, []string{"Title"}, changes.Fields())
	assert.Equal(t, "B", it.Title)
}

func TestAbsentFieldsAreSkipped(t *testing.T) {
	it := item{Title: "Keep", ImageSrc: "keep.jpg"}

	changes, err := Apply(itemTable(), &it, decode(t, `{"id": 5}`))
	require.NoError(t, err)

	assert.Equal(t, "Keep", it.Title)
	assert.Equal(t, "keep.jpg", it.ImageSrc)
	assert.Equal(t, []string{"RemoteID"}, changes.Fields())
}

func TestNullNestedObjectIsSkipped(t *testing.T) {
	it := item{ImageSrc: "keep.jpg"}

	_, err := Apply(itemTable(), &it, decode(t, `{"image": null}`))
	require.NoError(t, err)
	assert.Equal(t, "keep.jpg", it.ImageSrc)
}

func TestPresencePolicies(t *testing.T) {
	rec := decode(t, `{"title": null, "compare_at_price": null}`)

	declared := item{Title: "Old", Compare: decimal.NewNullDecimal(decimal.NewFromInt(5))}
	changes, err := Apply(itemTable(), &declared, rec)
	require.NoError(t, err)
	assert.Equal(t, "", declared.Title)
	assert.False(t, declared.Compare.Valid)
	assert.ElementsMatch(t, []string{"Title", "Compare"}, changes.Fields())

	nonNull := item{Title: "Old", Compare: decimal.NewNullDecimal(decimal.NewFromInt(5))}
	changes, err = Apply(itemTable().WithPresence(NonNull), &nonNull, rec)
	require.NoError(t, err)
	assert.Equal(t, "Old", nonNull.Title)
	assert.True(t, nonNull.Compare.Valid)
	assert.False(t, changes.Any())
}

func TestTypeMismatchIsReportedPerField(t *testing.T) {
	it := item{}

	_, err := Apply(itemTable(), &it, decode(t, `{"title": 12, "price": "abc", "position": 3}`))
	require.Error(t, err)

	var fieldErr *FieldError
	require.ErrorAs(t, err, &fieldErr)
	assert.Equal(t, "title", fieldErr.Source)
	assert.Contains(t, err.Error(), "price")
	assert.Equal(t, 3, it.Position, "valid fields are still applied")
}

func TestTargets(t *testing.T) {
	assert.Equal(t,
		[]string{"RemoteID", "Title", "Price", "Compare", "Position", "Active", "Tags", "Updated", "ImageSrc"},
		itemTable().Targets())
}

func TestRecordHelpers(t *testing.T) {
	rec := decode(t, `{"id": 7, "collection_id": 841564295, "images": [{"id": 1}, 2, {"id": 3}], "image": {"id": 9}}`)

	assert.Equal(t, "7", rec.ID())
	assert.True(t, rec.Has("image"))
	assert.False(t, rec.Has("variants"))

	cid, ok := rec.Int64("collection_id")
	assert.True(t, ok)
	assert.Equal(t, int64(841564295), cid)

	_, ok = rec.Int64("product_id")
	assert.False(t, ok)

	images := rec.Objects("images")
	require.Len(t, images, 2)
	assert.Equal(t, "3", images[1].ID())

	img, ok := rec.Object("image")
	require.True(t, ok)
	assert.Equal(t, "9", img.ID())
}

func TestAssign(t *testing.T) {
	var changes Changes
	v := "a"

	Assign(&v, "a", "V", &changes)
	assert.False(t, changes.Any())

	Assign(&v, "b", "V", &changes)
	Assign(&v, "c", "V", &changes)
	assert.Equal(t, "c", v)
	assert.Equal(t, []string{"V"}, changes.Fields())
}
