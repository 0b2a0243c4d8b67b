package spotify

import (
	"context"
	"encoding/json"
	"net/http"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchBuildsQuery(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search", r.URL.Path)
		assert.Equal(t, "bohemian rhapsody", r.URL.Query().Get("q"))
		assert.Equal(t, "track", r.URL.Query().Get("type"))
		assert.Equal(t, "5", r.URL.Query().Get("limit"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"tracks":{"items":[{"id":"t1","name":"Bohemian Rhapsody","artists":[{"id":"a1","name":"Queen"}]}],"total":1}}`))
	})

	result, err := client.Search(context.Background(), "bohemian rhapsody", "track", 5)
	require.NoError(t, err)
	require.NotNil(t, result.Tracks)
	require.Len(t, result.Tracks.Items, 1)
	assert.Equal(t, "Bohemian Rhapsody", result.Tracks.Items[0].Name)
	assert.Equal(t, "Queen", result.Tracks.Items[0].Artists[0].Name)
}

func TestSearchRejectsUnsupportedType(t *testing.T) {
	var requests atomic.Int32
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
	})

	_, err := client.Search(context.Background(), "anything", "podcast", 5)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "podcast")
	assert.Equal(t, int32(0), requests.Load())
}

func TestSearchDefaultsTypeAndLimit(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "track", r.URL.Query().Get("type"))
		assert.Equal(t, "10", r.URL.Query().Get("limit"))
		w.Write([]byte(`{}`))
	})

	_, err := client.Search(context.Background(), "something", "", 0)
	require.NoError(t, err)
}

func TestCurrentlyPlaying(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/me/player/currently-playing", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"is_playing":true,"progress_ms":42000,"item":{"id":"t1","name":"Song","duration_ms":180000}}`))
	})

	state, err := client.CurrentlyPlaying(context.Background())
	require.NoError(t, err)
	require.NotNil(t, state)
	assert.True(t, state.IsPlaying)
	assert.Equal(t, 42000, state.ProgressMS)
	assert.Equal(t, "Song", state.Item.Name)
}

func TestCurrentlyPlayingNothing(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	state, err := client.CurrentlyPlaying(context.Background())
	require.NoError(t, err)
	assert.Nil(t, state)
}

func TestPlaySpecificTrackOnDevice(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/me/player/play", r.URL.Path)
		assert.Equal(t, "dev-1", r.URL.Query().Get("device_id"))

		var body map[string][]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, []string{"spotify:track:t1"}, body["uris"])

		w.WriteHeader(http.StatusNoContent)
	})

	err := client.Play(context.Background(), PlayOptions{TrackID: "t1", DeviceID: "dev-1"})
	assert.NoError(t, err)
}

func TestPlayResumeSendsNoBody(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Content-Type"))
		w.WriteHeader(http.StatusNoContent)
	})

	assert.NoError(t, client.Play(context.Background(), PlayOptions{}))
}

func TestNextAndPrevious(t *testing.T) {
	var paths []string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		paths = append(paths, r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	})

	require.NoError(t, client.Next(context.Background()))
	require.NoError(t, client.Previous(context.Background()))
	assert.Equal(t, []string{"/me/player/next", "/me/player/previous"}, paths)
}

func TestAddToQueue(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/me/player/queue", r.URL.Path)
		assert.Equal(t, "spotify:track:t9", r.URL.Query().Get("uri"))
		w.WriteHeader(http.StatusNoContent)
	})

	assert.NoError(t, client.AddToQueue(context.Background(), "t9"))
}

func TestAddToQueueRequiresTrack(t *testing.T) {
	var requests atomic.Int32
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
	})

	require.Error(t, client.AddToQueue(context.Background(), ""))
	assert.Equal(t, int32(0), requests.Load())
}

func TestQueue(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/me/player/queue", r.URL.Path)
		w.Write([]byte(`{"currently_playing":{"id":"t1","name":"Now"},"queue":[{"id":"t2","name":"Next Up"}]}`))
	})

	queue, err := client.Queue(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Now", queue.CurrentlyPlaying.Name)
	require.Len(t, queue.Queue, 1)
	assert.Equal(t, "Next Up", queue.Queue[0].Name)
}

func TestCreatePlaylistResolvesUserFirst(t *testing.T) {
	var paths []string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		switch r.URL.Path {
		case "/me":
			w.Write([]byte(`{"id":"user-1","display_name":"Tester"}`))
		case "/users/user-1/playlists":
			assert.Equal(t, http.MethodPost, r.Method)

			var body map[string]interface{}
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "Road Trip", body["name"])
			assert.Equal(t, false, body["public"])

			w.WriteHeader(http.StatusCreated)
			w.Write([]byte(`{"id":"pl-1","name":"Road Trip","owner":{"id":"user-1"}}`))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	})

	playlist, err := client.CreatePlaylist(context.Background(), "Road Trip", "", false)
	require.NoError(t, err)
	assert.Equal(t, "pl-1", playlist.ID)
	assert.Equal(t, []string{"/me", "/users/user-1/playlists"}, paths)
}

func TestAddTracksToPlaylist(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/playlists/pl-1/tracks", r.URL.Path)

		var body map[string][]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, []string{"spotify:track:t1", "spotify:track:t2"}, body["uris"])

		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"snapshot_id":"snap"}`))
	})

	err := client.AddTracksToPlaylist(context.Background(), "pl-1", []string{"t1", "t2"})
	assert.NoError(t, err)
}

func TestAddTracksToPlaylistCapped(t *testing.T) {
	var requests atomic.Int32
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
	})

	ids := make([]string, maxTracksPerAdd+1)
	for i := range ids {
		ids[i] = "t"
	}
	require.Error(t, client.AddTracksToPlaylist(context.Background(), "pl-1", ids))
	assert.Equal(t, int32(0), requests.Load())
}

func TestUserPlaylists(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/me/playlists", r.URL.Path)
		assert.Equal(t, "3", r.URL.Query().Get("limit"))
		w.Write([]byte(`{"items":[{"id":"pl-1","name":"Mix","tracks":{"total":12}}],"total":1}`))
	})

	page, err := client.UserPlaylists(context.Background(), 3, 0)
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, 12, page.Items[0].Tracks.Total)
}

func TestTopTracksTimeRange(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/me/top/tracks", r.URL.Path)
		assert.Equal(t, "long_term", r.URL.Query().Get("time_range"))
		w.Write([]byte(`{"items":[{"id":"t1","name":"Favorite"}],"total":1}`))
	})

	page, err := client.TopTracks(context.Background(), 10, RangeLongTerm)
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "Favorite", page.Items[0].Name)
}

func TestTopArtistsDefaultsRange(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/me/top/artists", r.URL.Path)
		assert.Equal(t, "medium_term", r.URL.Query().Get("time_range"))
		w.Write([]byte(`{"items":[],"total":0}`))
	})

	_, err := client.TopArtists(context.Background(), 10, "")
	assert.NoError(t, err)
}

func TestTopTracksRejectsBadRange(t *testing.T) {
	var requests atomic.Int32
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
	})

	_, err := client.TopTracks(context.Background(), 10, "forever")
	require.Error(t, err)
	assert.Equal(t, int32(0), requests.Load())
}

func TestRecommendations(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/recommendations", r.URL.Path)
		assert.Equal(t, "t1,t2", r.URL.Query().Get("seed_tracks"))
		assert.Equal(t, "a1", r.URL.Query().Get("seed_artists"))
		assert.Equal(t, "jazz", r.URL.Query().Get("seed_genres"))
		w.Write([]byte(`{"tracks":[{"id":"r1","name":"Suggestion"}]}`))
	})

	recs, err := client.Recommendations(context.Background(), RecommendationSeeds{
		Tracks:  []string{"t1", "t2"},
		Artists: []string{"a1"},
		Genres:  []string{"jazz"},
	}, 20)
	require.NoError(t, err)
	require.Len(t, recs.Tracks, 1)
	assert.Equal(t, "Suggestion", recs.Tracks[0].Name)
}

func TestRecommendationsSeedBounds(t *testing.T) {
	var requests atomic.Int32
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
	})

	_, err := client.Recommendations(context.Background(), RecommendationSeeds{}, 20)
	require.Error(t, err)

	_, err = client.Recommendations(context.Background(), RecommendationSeeds{
		Tracks: []string{"1", "2", "3", "4", "5", "6"},
	}, 20)
	require.Error(t, err)
	assert.Equal(t, int32(0), requests.Load())
}

func TestRecentlyPlayed(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/me/player/recently-played", r.URL.Path)
		w.Write([]byte(`{"items":[{"track":{"id":"t1","name":"Last Night"},"played_at":"2024-05-01T20:00:00Z"}]}`))
	})

	history, err := client.RecentlyPlayed(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, history.Items, 1)
	assert.Equal(t, "Last Night", history.Items[0].Track.Name)
}
