package donations

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testHeaders = []string{"Submission ID", "Name", "Email", "Auction Type", "Estimated Value"}

func rec(id, name, email, auctionType, value string) Record {
	return Record{
		"Submission ID":   id,
		"Name":            name,
		"Email":           email,
		"Auction Type":    auctionType,
		"Estimated Value": value,
	}
}

func TestMaterializeShortRow(t *testing.T) {
	rows := [][]string{
		{"auction-1-aaaaaa", "Ada"},
	}
	records := Materialize(testHeaders, rows)
	require.Len(t, records, 1)
	assert.Equal(t, "Ada", records[0]["Name"])
	assert.Equal(t, "", records[0]["Email"])
	assert.Equal(t, "", records[0]["Estimated Value"])
}

func TestMaterializeLongRowDropsExtras(t *testing.T) {
	rows := [][]string{
		{"auction-1-aaaaaa", "Ada", "ada@example.com", "Live", "100", "stray", "values"},
	}
	records := Materialize(testHeaders, rows)
	require.Len(t, records, 1)
	assert.Len(t, records[0], len(testHeaders))
	assert.Equal(t, "100", records[0]["Estimated Value"])
}

func TestClassify(t *testing.T) {
	cases := []struct {
		value string
		want  string
	}{
		{"Live", ClassLive},
		{"live auction", ClassLive},
		{"SILENT", ClassSilent},
		{"Live/Silent", ClassBoth},
		{"silent and live", ClassBoth},
		{"", ClassUnspecified},
		{"raffle", ClassUnspecified},
	}
	for _, tc := range cases {
		got := Classify(Record{"Auction Type": tc.value})
		assert.Equal(t, tc.want, got, "value %q", tc.value)
	}
}

func TestClassifyFallbackKey(t *testing.T) {
	assert.Equal(t, ClassLive, Classify(Record{"auctionType": "Live"}))
}

func TestFilterByAuction(t *testing.T) {
	records := []Record{
		rec("1", "a", "", "Live", ""),
		rec("2", "b", "", "Silent", ""),
		rec("3", "c", "", "Live/Silent", ""),
		rec("4", "d", "", "", ""),
	}

	assert.Len(t, FilterByAuction(records, "all"), 4)
	assert.Len(t, FilterByAuction(records, ""), 4)

	live := FilterByAuction(records, "live")
	require.Len(t, live, 2)
	assert.Equal(t, "1", live[0]["Submission ID"])
	assert.Equal(t, "3", live[1]["Submission ID"])

	silent := FilterByAuction(records, "silent")
	require.Len(t, silent, 2)
	assert.Equal(t, "2", silent[0]["Submission ID"])
	assert.Equal(t, "3", silent[1]["Submission ID"])
}

func TestSearchSubsetPreservesOrder(t *testing.T) {
	records := []Record{
		rec("auction-1-aaaaaa", "Ada Lovelace", "ada@example.com", "Live", "100"),
		rec("auction-2-bbbbbb", "Grace Hopper", "grace@example.com", "Silent", "250"),
		rec("auction-3-cccccc", "Adam West", "adam@example.com", "", "75"),
	}

	got := Search(records, "ada")
	require.Len(t, got, 2)
	assert.Equal(t, "auction-1-aaaaaa", got[0]["Submission ID"])
	assert.Equal(t, "auction-3-cccccc", got[1]["Submission ID"])
}

func TestSearchBlankQueryIsIdentity(t *testing.T) {
	records := []Record{rec("1", "a", "", "", "")}
	assert.Equal(t, records, Search(records, ""))
	assert.Equal(t, records, Search(records, "   "))
}

func TestSearchIgnoresUnprojectedFields(t *testing.T) {
	records := []Record{
		{"Submission ID": "1", "Address": "99 Hidden Lane"},
	}
	assert.Empty(t, Search(records, "hidden"))
}

func TestSortNumericAware(t *testing.T) {
	records := []Record{
		rec("1", "", "", "", "10"),
		rec("2", "", "", "", "9"),
		rec("3", "", "", "", "2"),
	}
	asc := SortRecords(records, "Estimated Value", true)
	assert.Equal(t, []string{"2", "9", "10"},
		[]string{asc[0]["Estimated Value"], asc[1]["Estimated Value"], asc[2]["Estimated Value"]})

	desc := SortRecords(records, "Estimated Value", false)
	assert.Equal(t, "10", desc[0]["Estimated Value"])
}

func TestSortMissingValueFirstAscending(t *testing.T) {
	records := []Record{
		rec("1", "Zoe", "", "", ""),
		{"Submission ID": "2"},
	}
	asc := SortRecords(records, "Name", true)
	assert.Equal(t, "2", asc[0]["Submission ID"])
}

func TestSortStableAndRoundTrips(t *testing.T) {
	records := []Record{
		rec("1", "Same", "", "", ""),
		rec("2", "Same", "", "", ""),
		rec("3", "Aaa", "", "", ""),
	}
	asc := SortRecords(records, "Name", true)
	// equal keys keep their relative order
	assert.Equal(t, "1", asc[1]["Submission ID"])
	assert.Equal(t, "2", asc[2]["Submission ID"])

	desc := SortRecords(asc, "Name", false)
	back := SortRecords(desc, "Name", true)
	assert.Equal(t, asc, back)
}

func TestSortStateSelect(t *testing.T) {
	var s SortState
	s.Select("Name")
	assert.Equal(t, SortState{Field: "Name", Ascending: true}, s)
	s.Select("Name")
	assert.Equal(t, SortState{Field: "Name", Ascending: false}, s)
	s.Select("Email")
	assert.Equal(t, SortState{Field: "Email", Ascending: true}, s)
}

func TestSummarizeCounts(t *testing.T) {
	records := []Record{
		rec("1", "", "", "Live", ""),
		rec("2", "", "", "Live", ""),
		rec("3", "", "", "Silent", ""),
		rec("4", "", "", "Live/Silent", ""),
		rec("5", "", "", "", ""),
	}
	s := Summarize(records)
	assert.Equal(t, 5, s.Total)
	assert.Equal(t, 3, s.Live)   // live-only 2 + both 1
	assert.Equal(t, 2, s.Silent) // silent-only 1 + both 1
	assert.Equal(t, 1, s.Both)
	assert.Equal(t, 1, s.Unspecified)

	liveOnly := s.Live - s.Both
	silentOnly := s.Silent - s.Both
	assert.Equal(t, s.Total, liveOnly+silentOnly+s.Both+s.Unspecified)
}

type stubSource struct {
	headers []string
	rows    [][]string
	err     error
}

func (s *stubSource) ReadAll(context.Context, string) ([]string, [][]string, error) {
	return s.headers, s.rows, s.err
}

func TestEngineList(t *testing.T) {
	src := &stubSource{
		headers: testHeaders,
		rows: [][]string{
			{"auction-1-aaaaaa", "Ada", "ada@example.com", "Live"},
		},
	}
	ds, err := NewEngine(src).List(context.Background(), "Auction Donations")
	require.NoError(t, err)
	assert.Equal(t, testHeaders, ds.Headers)
	require.Len(t, ds.Records, 1)
	assert.Equal(t, "Ada", ds.Records[0]["Name"])
}

func TestEngineListReadFailure(t *testing.T) {
	src := &stubSource{err: errors.New("table missing")}
	ds, err := NewEngine(src).List(context.Background(), "Auction Donations")
	require.Error(t, err)
	assert.Nil(t, ds)
}
