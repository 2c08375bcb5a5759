package workspace

import "sync"

// Document is one open editor document.
type Document struct {
	FileID  string
	Path    string
	Content string
	Version int
}

// DocumentStore tracks open documents so queries against unsaved edits see
// editor content instead of what is on disk.
type DocumentStore struct {
	mu   sync.RWMutex
	docs map[string]*Document
}

// NewDocumentStore creates an empty store.
func NewDocumentStore() *DocumentStore {
	return &DocumentStore{docs: make(map[string]*Document)}
}

// Open registers a document, replacing any previous entry for fileID.
func (s *DocumentStore) Open(fileID, path, content string) *Document {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc := &Document{FileID: fileID, Path: path, Content: content}
	s.docs[fileID] = doc
	return doc
}

// Update replaces the content of an open document and bumps its version.
// Updating an unknown document opens it implicitly.
func (s *DocumentStore) Update(fileID, content string) *Document {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, ok := s.docs[fileID]
	if !ok {
		doc = &Document{FileID: fileID, Path: fileID}
		s.docs[fileID] = doc
	}
	doc.Content = content
	doc.Version++
	return doc
}

// Get returns the open document for fileID, or nil.
func (s *DocumentStore) Get(fileID string) *Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.docs[fileID]
}

// Close forgets a document. Returns whether it was open.
func (s *DocumentStore) Close(fileID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.docs[fileID]
	delete(s.docs, fileID)
	return ok
}

// Len reports the number of open documents.
func (s *DocumentStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.docs)
}
