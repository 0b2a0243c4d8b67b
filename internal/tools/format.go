package tools

import (
	"fmt"
	"strings"

	"spotify-mcp/internal/spotify"
)

// Plain-text formatting of API responses for assistant consumption.

// formatDuration renders milliseconds as m:ss.
func formatDuration(ms int) string {
	total := ms / 1000
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}

// artistNames joins artist names for display.
func artistNames(artists []spotify.Artist) string {
	if len(artists) == 0 {
		return "Unknown artist"
	}
	names := make([]string, 0, len(artists))
	for _, a := range artists {
		names = append(names, a.Name)
	}
	return strings.Join(names, ", ")
}

// formatTrackLine renders one track as a single list line.
func formatTrackLine(i int, t spotify.Track) string {
	line := fmt.Sprintf("%d. %s - %s", i, t.Name, artistNames(t.Artists))
	if t.Album.Name != "" {
		line += fmt.Sprintf(" (album: %s)", t.Album.Name)
	}
	if t.DurationMS > 0 {
		line += fmt.Sprintf(" [%s]", formatDuration(t.DurationMS))
	}
	return line + fmt.Sprintf(" {id: %s}", t.ID)
}

func formatTrackList(title string, tracks []spotify.Track) string {
	if len(tracks) == 0 {
		return fmt.Sprintf("%s: no results.", title)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s:\n", title)
	for i, t := range tracks {
		b.WriteString(formatTrackLine(i+1, t) + "\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func formatArtistList(title string, artists []spotify.Artist) string {
	if len(artists) == 0 {
		return fmt.Sprintf("%s: no results.", title)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s:\n", title)
	for i, a := range artists {
		line := fmt.Sprintf("%d. %s", i+1, a.Name)
		if len(a.Genres) > 0 {
			line += fmt.Sprintf(" (%s)", strings.Join(a.Genres, ", "))
		}
		line += fmt.Sprintf(" {id: %s}", a.ID)
		b.WriteString(line + "\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func formatAlbumList(title string, albums []spotify.Album) string {
	if len(albums) == 0 {
		return fmt.Sprintf("%s: no results.", title)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s:\n", title)
	for i, a := range albums {
		line := fmt.Sprintf("%d. %s - %s", i+1, a.Name, artistNames(a.Artists))
		if a.ReleaseDate != "" {
			line += fmt.Sprintf(" (%s)", a.ReleaseDate)
		}
		line += fmt.Sprintf(" {id: %s}", a.ID)
		b.WriteString(line + "\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func formatPlaylistPage(page *spotify.PlaylistPage) string {
	if page == nil || len(page.Items) == 0 {
		return "No playlists found."
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Playlists (%d total):\n", page.Total)
	for i, p := range page.Items {
		line := fmt.Sprintf("%d. %s (%d tracks)", i+1, p.Name, p.Tracks.Total)
		if p.Description != "" {
			line += " - " + p.Description
		}
		line += fmt.Sprintf(" {id: %s}", p.ID)
		b.WriteString(line + "\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func formatSearchResult(result *spotify.SearchResult) string {
	switch {
	case result.Tracks != nil:
		return formatTrackList("Tracks", result.Tracks.Items)
	case result.Artists != nil:
		return formatArtistList("Artists", result.Artists.Items)
	case result.Albums != nil:
		return formatAlbumList("Albums", result.Albums.Items)
	case result.Playlists != nil:
		return formatPlaylistPage(result.Playlists)
	default:
		return "No results."
	}
}

func formatCurrentlyPlaying(state *spotify.CurrentlyPlaying) string {
	track := state.Item
	status := "Paused"
	if state.IsPlaying {
		status = "Now playing"
	}

	line := fmt.Sprintf("%s: %s - %s", status, track.Name, artistNames(track.Artists))
	if track.Album.Name != "" {
		line += fmt.Sprintf(" (album: %s)", track.Album.Name)
	}
	if track.DurationMS > 0 {
		line += fmt.Sprintf(" [%s / %s]", formatDuration(state.ProgressMS), formatDuration(track.DurationMS))
	}
	if state.Device.Name != "" {
		line += fmt.Sprintf(" on %s", state.Device.Name)
	}
	return line + fmt.Sprintf(" {id: %s}", track.ID)
}

func formatQueue(queue *spotify.Queue) string {
	var b strings.Builder
	if queue.CurrentlyPlaying != nil {
		t := queue.CurrentlyPlaying
		fmt.Fprintf(&b, "Now playing: %s - %s {id: %s}\n", t.Name, artistNames(t.Artists), t.ID)
	} else {
		b.WriteString("Nothing is playing right now.\n")
	}

	if len(queue.Queue) == 0 {
		b.WriteString("The queue is empty.")
		return b.String()
	}

	b.WriteString("Up next:\n")
	for i, t := range queue.Queue {
		b.WriteString(formatTrackLine(i+1, t) + "\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func formatRecentlyPlayed(history *spotify.RecentlyPlayed) string {
	if history == nil || len(history.Items) == 0 {
		return "No listening history found."
	}
	var b strings.Builder
	b.WriteString("Recently played:\n")
	for i, item := range history.Items {
		line := fmt.Sprintf("%d. %s - %s", i+1, item.Track.Name, artistNames(item.Track.Artists))
		if item.PlayedAt != "" {
			line += fmt.Sprintf(" (at %s)", item.PlayedAt)
		}
		line += fmt.Sprintf(" {id: %s}", item.Track.ID)
		b.WriteString(line + "\n")
	}
	return strings.TrimRight(b.String(), "\n")
}
