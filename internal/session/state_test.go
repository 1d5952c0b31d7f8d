package session

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pders01/lumen/internal/catalog"
)

func record(id, href string) catalog.Record {
	return catalog.Record{
		Data:  []catalog.Metadata{{ID: id, Title: "title " + id}},
		Links: []catalog.Link{{Href: href}},
	}
}

func filled() State {
	s := Apply(State{}, Edit{Field: FieldQuery, Value: "moon"})
	s = Apply(s, Edit{Field: FieldYearStart, Value: "1969"})
	return Apply(s, Edit{Field: FieldYearEnd, Value: "1972"})
}

func TestApply_Edit(t *testing.T) {
	s := filled()

	assert.Equal(t, "moon", s.Query())
	assert.Equal(t, "1969", s.YearStart())
	assert.Equal(t, "1972", s.YearEnd())
	assert.Equal(t, "1969", s.Value(FieldYearStart))
	assert.Equal(t, catalog.Query{Text: "moon", YearStart: "1969", YearEnd: "1972"}, s.Request())
}

func TestApply_Submitted(t *testing.T) {
	t.Run("empty query is not submittable", func(t *testing.T) {
		s := State{}
		assert.False(t, s.CanSubmit())
		assert.False(t, Apply(s, Submitted{}).Loading())
	})

	t.Run("hides the previous error and sets loading", func(t *testing.T) {
		s := Apply(filled(), Submitted{})
		s = Apply(s, Settled{Outcome: catalog.ServerError{Status: 500}})
		assert.True(t, s.ErrorVisible())

		s = Apply(s, Edit{Field: FieldQuery, Value: "mars"})
		s = Apply(s, Submitted{})
		assert.True(t, s.Loading())
		assert.False(t, s.ErrorVisible())
		assert.Empty(t, s.Message())
	})

	t.Run("no second submit while loading", func(t *testing.T) {
		s := Apply(filled(), Submitted{})
		assert.False(t, s.CanSubmit())
	})
}

func TestApply_SettledResetsInputs(t *testing.T) {
	outcomes := []catalog.Outcome{
		catalog.Success{Items: []catalog.Record{record("1", "https://img/a.jpg")}},
		catalog.Empty{},
		catalog.ClientError{Status: 400},
		catalog.ClientError{Status: 404},
		catalog.ServerError{Status: 503},
		catalog.UnknownError{Status: 418},
		catalog.TransportFailure{Err: errors.New("dial tcp: no route to host")},
		nil,
	}

	for _, outcome := range outcomes {
		s := Apply(Apply(filled(), Submitted{}), Settled{Outcome: outcome})

		assert.False(t, s.Loading())
		assert.Equal(t, "", s.Query())
		assert.Equal(t, "", s.YearStart())
		assert.Equal(t, "", s.YearEnd())
	}
}

func TestApply_SettledSuccess(t *testing.T) {
	items := []catalog.Record{
		record("1", "https://img/a.jpg"),
		record("2", "https://img/b.jpg"),
		record("3", "https://img/a.jpg"),
	}
	s := Apply(Apply(filled(), Submitted{}), Settled{Outcome: catalog.Success{Items: items, TotalHits: 120}})

	assert.Equal(t, items, s.Results())
	assert.Equal(t, 3, s.ResultCount())
	assert.Equal(t, []string{"https://img/a.jpg", "https://img/b.jpg"}, s.Gallery().URLs())
	assert.Equal(t, 120, s.TotalHits())
	assert.Nil(t, s.Outcome())
	assert.False(t, s.ErrorVisible())

	// the state keeps its own copy of the records
	items[0].Data[0].Title = "changed"
	assert.Equal(t, "title 1", s.Results()[0].Data[0].Title)
}

func TestApply_SettledFailureClearsResults(t *testing.T) {
	s := Apply(Apply(filled(), Submitted{}), Settled{Outcome: catalog.Success{Items: []catalog.Record{record("1", "https://img/a.jpg")}}})
	assert.Equal(t, 1, s.ResultCount())

	s = Apply(s, Edit{Field: FieldQuery, Value: "nothing"})
	s = Apply(Apply(s, Submitted{}), Settled{Outcome: catalog.Empty{}})

	assert.Empty(t, s.Results())
	assert.Equal(t, 0, s.Gallery().Len())
	assert.Equal(t, 0, s.TotalHits())
	assert.True(t, s.ErrorVisible())
	assert.Equal(t, catalog.MsgEmpty, s.Message())
}

func TestApply_TransportFailureIsVisible(t *testing.T) {
	s := Apply(Apply(filled(), Submitted{}), Settled{Outcome: catalog.TransportFailure{Err: errors.New("timeout")}})

	assert.True(t, s.ErrorVisible())
	assert.Equal(t, catalog.MsgUnknownError, s.Message())
	assert.Equal(t, catalog.KindTransportFailure, s.Outcome().Kind())
}

func TestApply_Dismissed(t *testing.T) {
	s := Apply(Apply(filled(), Submitted{}), Settled{Outcome: catalog.ClientError{Status: 404}})
	assert.Equal(t, catalog.MsgNotFound, s.Message())

	s = Apply(s, Dismissed{})
	assert.False(t, s.ErrorVisible())
	assert.Empty(t, s.Message())
	assert.NotNil(t, s.Outcome(), "the outcome stays until the next search replaces it")
}

func TestApply_DoesNotMutateInput(t *testing.T) {
	before := filled()
	after := Apply(before, Submitted{})

	assert.False(t, before.Loading())
	assert.True(t, after.Loading())
	assert.Equal(t, "moon", before.Query())
}

func TestApply_Reset(t *testing.T) {
	s := Apply(filled(), Submitted{})
	assert.Equal(t, State{}, Apply(s, Reset{}))
}
