package models

import "fmt"

// MaxSelectedVideos caps how many videos a single analysis run may cover.
const MaxSelectedVideos = 5

// SelectedVideo pairs a video id with the title it carried in the search
// results at selection time.
type SelectedVideo struct {
	VideoID string `json:"video_id"`
	Title   string `json:"title"`
}

// SelectionSet is the user-curated set of videos for one analysis run.
// Insertion order is preserved and drives dataset row order.
type SelectionSet struct {
	order  []string
	titles map[string]string
}

func NewSelectionSet() *SelectionSet {
	return &SelectionSet{titles: make(map[string]string)}
}

// Add registers a video. Re-adding an existing id only updates its title and
// keeps its original position.
func (s *SelectionSet) Add(videoID, title string) error {
	if videoID == "" {
		return fmt.Errorf("selection: empty video id")
	}
	if _, ok := s.titles[videoID]; !ok {
		if len(s.order) >= MaxSelectedVideos {
			return fmt.Errorf("selection: at most %d videos may be selected", MaxSelectedVideos)
		}
		s.order = append(s.order, videoID)
	}
	s.titles[videoID] = title
	return nil
}

func (s *SelectionSet) Remove(videoID string) {
	if _, ok := s.titles[videoID]; !ok {
		return
	}
	delete(s.titles, videoID)
	for i, id := range s.order {
		if id == videoID {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

func (s *SelectionSet) Len() int { return len(s.order) }

// Videos returns the selection in insertion order.
func (s *SelectionSet) Videos() []SelectedVideo {
	out := make([]SelectedVideo, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, SelectedVideo{VideoID: id, Title: s.titles[id]})
	}
	return out
}

// Clear drops every entry. Called when a new search replaces the candidates.
func (s *SelectionSet) Clear() {
	s.order = nil
	s.titles = make(map[string]string)
}
