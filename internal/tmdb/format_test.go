package tmdb

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatRuntime(t *testing.T) {
	tests := []struct {
		minutes int
		want    string
	}{
		{136, "2h 16m"},
		{120, "2h"},
		{45, "45m"},
		{0, "0m"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatRuntime(tt.minutes))
	}
}

func TestFormatMovie_PrefersSecondUSRelease(t *testing.T) {
	info := &MovieInfo{ID: 1, OriginalTitle: "Heat", Runtime: 170, ReleaseDate: "1995-12-15"}
	releases := &ReleaseDatesResponse{Results: []CountryReleases{
		{Country: "GB", ReleaseDates: []ReleaseDate{{Certification: "15", ReleaseDate: "1996-02-23T00:00:00.000Z"}}},
		{Country: "US", ReleaseDates: []ReleaseDate{
			{Certification: "", ReleaseDate: "1995-12-06T00:00:00.000Z"},
			{Certification: "R", ReleaseDate: "1995-12-15T00:00:00.000Z"},
		}},
	}}

	got := FormatMovie(info, releases, &Credits{})

	assert.Equal(t, []string{"R", "12/15/1995", "2h 50m"}, got.Facts)
	assert.Equal(t, "US", got.Country)
	assert.Equal(t, "1995", got.ReleaseYear)
}

func TestFormatMovie_FallsBackToMovieReleaseDate(t *testing.T) {
	info := &MovieInfo{ID: 2, Runtime: 95, ReleaseDate: "2001-07-20", VoteAverage: 7.96}
	releases := &ReleaseDatesResponse{Results: []CountryReleases{
		{Country: "JP", ReleaseDates: []ReleaseDate{{Certification: "G", ReleaseDate: "2001-07-20T00:00:00.000Z"}}},
	}}

	got := FormatMovie(info, releases, nil)

	assert.Equal(t, []string{"07/20/2001", "1h 35m"}, got.Facts)
	assert.Empty(t, got.Country)
	assert.Equal(t, "2001", got.ReleaseYear)
	assert.Equal(t, 79, got.Percentage)
	assert.Equal(t, 142, got.CircleFill)
	assert.Equal(t, "Not listed", got.Director)
}

func TestFormatMovie_NoDirector(t *testing.T) {
	credits := &Credits{Crew: []CrewMember{{Name: "Someone", Job: "Producer"}}}

	got := FormatMovie(&MovieInfo{}, nil, credits)

	assert.Equal(t, "Not listed", got.Director)
	assert.Equal(t, []string{"", "0m"}, got.Facts)
}
