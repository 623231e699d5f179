package geo

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/homebase-finder/internal/model"
)

func loadTestdata(t *testing.T) *Dataset {
	t.Helper()
	d, err := Load("testdata")
	require.NoError(t, err)
	return d
}

func TestLoadAndCascade(t *testing.T) {
	d := loadTestdata(t)
	r, p, c, b := d.Counts()
	assert.Equal(t, []int{2, 3, 3, 4}, []int{r, p, c, b})

	regions := d.Regions()
	require.Len(t, regions, 2)
	assert.Equal(t, "01", regions[0].Code)

	provinces := d.ProvincesOf("07")
	require.Len(t, provinces, 2)
	assert.Equal(t, "Cebu", provinces[0].Name)

	cities := d.CitiesOf("0722")
	require.Len(t, cities, 2)

	brgys := d.BarangaysOf("072217")
	require.Len(t, brgys, 2)
	assert.Equal(t, "Adlaon", brgys[0].Name)

	assert.Empty(t, d.ProvincesOf(""))
	assert.Empty(t, d.CitiesOf("9999"))
}

func TestBarangayKeyFallbacks(t *testing.T) {
	d := loadTestdata(t)

	mandaue := d.BarangaysOf("072230")
	require.Len(t, mandaue, 1)
	assert.Equal(t, "72230001", mandaue[0].Code, "numeric codes keep their decimal text")
	assert.Equal(t, "Alang-Alang", mandaue[0].Name)

	batac := d.BarangaysOf("012805")
	require.Len(t, batac, 1)
	assert.Equal(t, "012805001", batac[0].Code)
	assert.Equal(t, "Aglipay", batac[0].Name)
}

func TestSelectionResetsDescendants(t *testing.T) {
	d := loadTestdata(t)
	s := d.NewSelection()

	require.NoError(t, s.SelectRegion("07"))
	require.NoError(t, s.SelectProvince("0722"))
	require.NoError(t, s.SelectCity("072217"))
	require.NoError(t, s.SelectBarangay("072217002"))
	assert.Len(t, s.Barangays(), 2)

	require.NoError(t, s.SelectProvince("0712"))
	assert.Equal(t, "0712", s.Province)
	assert.Empty(t, s.City)
	assert.Empty(t, s.Barangay)
	assert.Empty(t, s.Barangays())

	require.NoError(t, s.SelectRegion("01"))
	assert.Empty(t, s.Province)
	assert.Len(t, s.Provinces(), 1)

	assert.ErrorIs(t, s.SelectProvince("0722"), ErrNotInParent)
	assert.ErrorIs(t, s.SelectRegion("99"), ErrUnknownCode)
	assert.Equal(t, "01", s.Region, "failed select keeps the previous state")

	require.NoError(t, s.SelectRegion(""))
	assert.Empty(t, s.Provinces())
}

func TestResolveAndCompose(t *testing.T) {
	res := NewResolver(loadTestdata(t))

	sa, err := res.Resolve(Codes{Region: "07", Province: "0722", City: "072217", Barangay: "072217001"}, " 12 Osmeña Blvd ", "6000")
	require.NoError(t, err)
	assert.Equal(t, "Region VII (Central Visayas)", sa.Region)
	assert.Equal(t, "Cebu", sa.Province)
	assert.Equal(t, "Cebu City", sa.City)
	assert.Equal(t, "Adlaon", sa.Barangay)
	assert.Equal(t, "12 Osmeña Blvd", sa.Street)
	assert.Equal(t, "12 Osmeña Blvd, Adlaon, Cebu City, Cebu, Region VII (Central Visayas)", ComposeAddress(sa))

	partial, err := res.Resolve(Codes{Region: "07", Province: "0722"}, "", "")
	require.NoError(t, err)
	assert.Equal(t, "Cebu, Region VII (Central Visayas)", ComposeAddress(partial))

	_, err = res.Resolve(Codes{Region: "01", Province: "0722"}, "", "")
	assert.ErrorIs(t, err, ErrNotInParent)

	_, err = res.Resolve(Codes{Province: "0722"}, "", "")
	assert.ErrorIs(t, err, ErrNotInParent)
}

func TestComposeAddressSkipsEmpty(t *testing.T) {
	assert.Equal(t, "", ComposeAddress(model.StructuredAddress{}))
	assert.Equal(t, "Main St, Cebu City", ComposeAddress(model.StructuredAddress{Street: "Main St", City: " Cebu City "}))
}

func TestParseErrors(t *testing.T) {
	_, err := Parse(strings.NewReader("{"), strings.NewReader("[]"), strings.NewReader("[]"), strings.NewReader("[]"))
	assert.Error(t, err)

	_, err = Load("does-not-exist")
	assert.Error(t, err)

	d, err := Parse(strings.NewReader("[]"), strings.NewReader("[]"), strings.NewReader("[]"), strings.NewReader("[]"))
	require.NoError(t, err)
	assert.Empty(t, d.Regions())
}

func TestRegionsKeepDatasetOrder(t *testing.T) {
	regions := `[
		{"region_name": "Region VII (Central Visayas)", "region_code": "07"},
		{"region_name": "NCR", "region_code": "13"},
		{"region_name": "Region I (Ilocos Region)", "region_code": "01"}
	]`
	d, err := Parse(strings.NewReader(regions), strings.NewReader("[]"), strings.NewReader("[]"), strings.NewReader("[]"))
	require.NoError(t, err)

	var codes []string
	for _, r := range d.Regions() {
		codes = append(codes, r.Code)
	}
	assert.Equal(t, []string{"07", "13", "01"}, codes)
}
