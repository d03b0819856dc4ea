package document

import (
	"sort"
	"sync"
)

// Store is the single mutable source of truth for the open project. All
// mutation funnels through its methods; readers get copies. A mutex guards
// the state because async completions arrive from command goroutines.
//
// Ordering invariant: sections are sorted by order_index exactly once, when
// Replace stores a fresh load. Every other mutation preserves slice order
// and identity.
type Store struct {
	mu       sync.RWMutex
	project  Project
	sections []Section
	loaded   bool
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{}
}

// Replace installs a freshly loaded project and its sections, sorting by
// order_index ascending. Fetch order from the transport is not trusted.
func (s *Store) Replace(project Project, sections []Section) {
	sorted := make([]Section, len(sections))
	copy(sorted, sections)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].OrderIndex < sorted[j].OrderIndex
	})

	s.mu.Lock()
	defer s.mu.Unlock()
	s.project = project
	s.sections = sorted
	s.loaded = true
}

// Clear drops the open project, e.g. when navigating back to the dashboard.
// Late completions for the old project then no-op against an empty store.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.project = Project{}
	s.sections = nil
	s.loaded = false
}

// Project returns the open project's metadata, if any.
func (s *Store) Project() (Project, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.project, s.loaded
}

// Sections returns a copy of the ordered section list.
func (s *Store) Sections() []Section {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Section, len(s.sections))
	copy(out, s.sections)
	return out
}

// Section looks up one section by id.
func (s *Store) Section(sectionID string) (Section, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, sec := range s.sections {
		if sec.ID == sectionID {
			return sec, true
		}
	}
	return Section{}, false
}

// ReplaceSectionContent swaps only the content field of the matching
// section, leaving title, order_index, and comments untouched. Unknown ids
// are a no-op; a late completion after Clear must not fault.
func (s *Store) ReplaceSectionContent(sectionID, content string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.sections {
		if s.sections[i].ID == sectionID {
			s.sections[i].Content = content
			return true
		}
	}
	return false
}

// RenameSection updates only the title of the matching section.
func (s *Store) RenameSection(sectionID, title string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.sections {
		if s.sections[i].ID == sectionID {
			s.sections[i].Title = title
			return true
		}
	}
	return false
}

// AppendComment adds a confirmed comment to the end of a section's list.
func (s *Store) AppendComment(sectionID string, comment Comment) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.sections {
		if s.sections[i].ID == sectionID {
			s.sections[i].Comments = append(s.sections[i].Comments, comment)
			return true
		}
	}
	return false
}

// RemoveComment splices out the comment with the given id from the given
// section. Removing an unknown id is a no-op.
func (s *Store) RemoveComment(sectionID, commentID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.sections {
		if s.sections[i].ID != sectionID {
			continue
		}
		comments := s.sections[i].Comments
		for j := range comments {
			if comments[j].ID == commentID {
				s.sections[i].Comments = append(comments[:j:j], comments[j+1:]...)
				return true
			}
		}
		return false
	}
	return false
}
