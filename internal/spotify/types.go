package spotify

// Response models for the Spotify Web API, following
// https://developer.spotify.com/documentation/web-api/reference/.
// Only the fields the tools surface are mapped.

// Image is an image resource attached to albums, artists, and playlists.
type Image struct {
	URL    string `json:"url"`
	Height int    `json:"height"`
	Width  int    `json:"width"`
}

// Artist is a Spotify artist.
type Artist struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Genres     []string `json:"genres,omitempty"`
	Popularity int      `json:"popularity,omitempty"`
	Images     []Image  `json:"images,omitempty"`
	URI        string   `json:"uri"`
}

// Album is a Spotify album.
type Album struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Artists     []Artist `json:"artists"`
	ReleaseDate string   `json:"release_date"`
	TotalTracks int      `json:"total_tracks"`
	Images      []Image  `json:"images,omitempty"`
	URI         string   `json:"uri"`
}

// Track is a Spotify track.
type Track struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Artists    []Artist `json:"artists"`
	Album      Album    `json:"album"`
	DurationMS int      `json:"duration_ms"`
	Explicit   bool     `json:"explicit"`
	Popularity int      `json:"popularity"`
	URI        string   `json:"uri"`
}

// User is a Spotify user profile.
type User struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	Email       string `json:"email,omitempty"`
	Country     string `json:"country,omitempty"`
	Product     string `json:"product,omitempty"`
}

// PlaylistOwner identifies who owns a playlist.
type PlaylistOwner struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
}

// PlaylistTracks carries the track count (and, on full playlist objects,
// the items) of a playlist.
type PlaylistTracks struct {
	Total int             `json:"total"`
	Items []PlaylistEntry `json:"items,omitempty"`
}

// PlaylistEntry is a track within a playlist context.
type PlaylistEntry struct {
	AddedAt string `json:"added_at"`
	Track   Track  `json:"track"`
}

// Playlist is a Spotify playlist.
type Playlist struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Owner       PlaylistOwner  `json:"owner"`
	Public      bool           `json:"public"`
	Tracks      PlaylistTracks `json:"tracks"`
	URI         string         `json:"uri"`
}

// TrackPage is a paginated list of tracks.
type TrackPage struct {
	Items  []Track `json:"items"`
	Total  int     `json:"total"`
	Limit  int     `json:"limit"`
	Offset int     `json:"offset"`
	Next   *string `json:"next"`
}

// ArtistPage is a paginated list of artists.
type ArtistPage struct {
	Items  []Artist `json:"items"`
	Total  int      `json:"total"`
	Limit  int      `json:"limit"`
	Offset int      `json:"offset"`
	Next   *string  `json:"next"`
}

// AlbumPage is a paginated list of albums.
type AlbumPage struct {
	Items  []Album `json:"items"`
	Total  int     `json:"total"`
	Limit  int     `json:"limit"`
	Offset int     `json:"offset"`
	Next   *string `json:"next"`
}

// PlaylistPage is a paginated list of playlists.
type PlaylistPage struct {
	Items  []Playlist `json:"items"`
	Total  int        `json:"total"`
	Limit  int        `json:"limit"`
	Offset int        `json:"offset"`
	Next   *string    `json:"next"`
}

// SearchResult holds the sections of a search response. Only the section
// matching the requested type is populated.
type SearchResult struct {
	Tracks    *TrackPage    `json:"tracks,omitempty"`
	Albums    *AlbumPage    `json:"albums,omitempty"`
	Artists   *ArtistPage   `json:"artists,omitempty"`
	Playlists *PlaylistPage `json:"playlists,omitempty"`
}

// Device is a Spotify Connect playback device.
type Device struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Type          string `json:"type"`
	IsActive      bool   `json:"is_active"`
	VolumePercent int    `json:"volume_percent"`
}

// CurrentlyPlaying is the player's now-playing state. Item is nil when
// nothing is playing.
type CurrentlyPlaying struct {
	IsPlaying  bool   `json:"is_playing"`
	ProgressMS int    `json:"progress_ms"`
	Item       *Track `json:"item"`
	Device     Device `json:"device"`
}

// Queue is the player's queue: the current track plus what follows.
type Queue struct {
	CurrentlyPlaying *Track  `json:"currently_playing"`
	Queue            []Track `json:"queue"`
}

// Recommendations is a set of recommended tracks for a group of seeds.
type Recommendations struct {
	Tracks []Track `json:"tracks"`
}

// PlayHistoryItem is one entry of the listening history.
type PlayHistoryItem struct {
	Track    Track  `json:"track"`
	PlayedAt string `json:"played_at"`
}

// RecentlyPlayed is a page of listening history.
type RecentlyPlayed struct {
	Items []PlayHistoryItem `json:"items"`
}
