package tmdb

import "fmt"

const usCountryCode = "US"

// FormatMovie merges the three movie API responses into display facts.
// US release data is preferred when present.
func FormatMovie(info *MovieInfo, releases *ReleaseDatesResponse, credits *Credits) MovieDetails {
	details := MovieDetails{
		ID:        info.ID,
		Title:     info.OriginalTitle,
		Poster:    info.PosterPath,
		VoteCount: info.VoteCount,
		Tagline:   info.Tagline,
		Overview:  info.Overview,
		Director:  "Not listed",
		Genres:    []string{},
		Facts:     []string{},
	}

	if us := usRelease(releases); us != nil {
		// with several US releases the second one is the theatrical date
		release := us.ReleaseDates[0]
		if len(us.ReleaseDates) > 1 {
			release = us.ReleaseDates[1]
		}
		if release.Certification != "" {
			details.Facts = append(details.Facts, release.Certification)
		}
		details.ReleaseYear = year(release.ReleaseDate)
		details.Facts = append(details.Facts, usDate(release.ReleaseDate))
		details.Country = us.Country
	} else {
		details.ReleaseYear = year(info.ReleaseDate)
		details.Facts = append(details.Facts, usDate(info.ReleaseDate))
	}

	details.Facts = append(details.Facts, FormatRuntime(info.Runtime))

	for _, genre := range info.Genres {
		details.Genres = append(details.Genres, genre.Name)
	}

	details.Percentage = int(info.VoteAverage * 10)
	details.CircleFill = int(float64(details.Percentage) / 100 * 180)

	if credits != nil {
		for _, member := range credits.Crew {
			if member.Job == "Director" {
				details.Director = member.Name
				break
			}
		}
		details.Cast = credits.Cast
	}

	return details
}

// FormatRuntime renders minutes as "2h 15m", "2h" or "45m".
func FormatRuntime(minutes int) string {
	hours, rest := minutes/60, minutes%60
	switch {
	case hours > 0 && rest > 0:
		return fmt.Sprintf("%dh %dm", hours, rest)
	case hours > 0:
		return fmt.Sprintf("%dh", hours)
	default:
		return fmt.Sprintf("%dm", rest)
	}
}

func usRelease(releases *ReleaseDatesResponse) *CountryReleases {
	if releases == nil {
		return nil
	}
	for i := range releases.Results {
		r := &releases.Results[i]
		if r.Country == usCountryCode && len(r.ReleaseDates) > 0 {
			return r
		}
	}
	return nil
}

func year(date string) string {
	if len(date) < 4 {
		return ""
	}
	return date[:4]
}

// usDate turns "2006-01-02..." into "01/02/2006".
func usDate(date string) string {
	if len(date) < 10 {
		return ""
	}
	return date[5:7] + "/" + date[8:10] + "/" + date[:4]
}
