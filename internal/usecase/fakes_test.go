package usecase_test

import (
	"context"
	"fmt"
	"sync"
	"time"

	"signflow/internal/domain/entity"
	"signflow/internal/usecase"
)

// In-memory fakes for the workflow collaborators. They hold their own
// locks so the concurrency tests exercise the real interleavings.

type fakeDocumentRepo struct {
	mu   sync.Mutex
	seq  int64
	docs map[int64]*entity.Document
}

func newFakeDocumentRepo() *fakeDocumentRepo {
	return &fakeDocumentRepo{docs: map[int64]*entity.Document{}}
}

func (r *fakeDocumentRepo) Create(ctx context.Context, doc *entity.Document) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	doc.ID = r.seq
	doc.CreatedAt = time.Now()
	doc.UpdatedAt = doc.CreatedAt
	cp := *doc
	r.docs[doc.ID] = &cp
	return nil
}

func (r *fakeDocumentRepo) FindByID(ctx context.Context, id int64) (*entity.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	doc, ok := r.docs[id]
	if !ok {
		return nil, entity.ErrDocumentNotFound
	}
	cp := *doc
	return &cp, nil
}

func (r *fakeDocumentRepo) FindByOwner(ctx context.Context, ownerID int64) ([]entity.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.Document
	for _, doc := range r.docs {
		if doc.OwnerID == ownerID {
			out = append(out, *doc)
		}
	}
	return out, nil
}

func (r *fakeDocumentRepo) FindBySignerEmail(ctx context.Context, email string) ([]entity.Document, error) {
	return nil, nil
}

func (r *fakeDocumentRepo) TransitionStatus(ctx context.Context, id int64, to entity.DocumentStatus, signedFilePath string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	doc, ok := r.docs[id]
	if !ok || doc.Status != entity.DocumentPending {
		return false, nil
	}
	doc.Status = to
	doc.SignedFilePath = signedFilePath
	doc.UpdatedAt = time.Now()
	return true, nil
}

func (r *fakeDocumentRepo) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.docs, id)
	return nil
}

type fakeSignerRepo struct {
	mu      sync.Mutex
	seq     int64
	signers map[int64]*entity.Signer
}

func newFakeSignerRepo() *fakeSignerRepo {
	return &fakeSignerRepo{signers: map[int64]*entity.Signer{}}
}

func (r *fakeSignerRepo) ReplaceForDocument(ctx context.Context, documentID int64, signers []entity.Signer) ([]entity.Signer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, s := range r.signers {
		if s.DocumentID == documentID {
			delete(r.signers, id)
		}
	}
	out := make([]entity.Signer, len(signers))
	for i, s := range signers {
		r.seq++
		s.ID = r.seq
		s.DocumentID = documentID
		s.CreatedAt = time.Now()
		s.UpdatedAt = s.CreatedAt
		cp := s
		r.signers[s.ID] = &cp
		out[i] = s
	}
	return out, nil
}

func (r *fakeSignerRepo) FindByDocument(ctx context.Context, documentID int64) ([]entity.Signer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.Signer
	for _, s := range r.signers {
		if s.DocumentID == documentID {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (r *fakeSignerRepo) FindByDocumentAndEmail(ctx context.Context, documentID int64, email string) (*entity.Signer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.signers {
		if s.DocumentID == documentID && s.Email == email {
			cp := *s
			return &cp, nil
		}
	}
	return nil, entity.ErrSignerNotFound
}

func (r *fakeSignerRepo) FindNextPending(ctx context.Context, documentID int64) (*entity.Signer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var next *entity.Signer
	for _, s := range r.signers {
		if s.DocumentID != documentID || s.Status != entity.SignerPending {
			continue
		}
		if next == nil || s.SigningOrder < next.SigningOrder ||
			(s.SigningOrder == next.SigningOrder && s.ID < next.ID) {
			next = s
		}
	}
	if next == nil {
		return nil, nil
	}
	cp := *next
	return &cp, nil
}

func (r *fakeSignerRepo) CountPending(ctx context.Context, documentID int64) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	count := 0
	for _, s := range r.signers {
		if s.DocumentID == documentID && s.Status == entity.SignerPending {
			count++
		}
	}
	return count, nil
}

func (r *fakeSignerRepo) MarkSigned(ctx context.Context, id int64, at time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.signers[id]
	if !ok || s.Status != entity.SignerPending {
		return false, nil
	}
	s.Status = entity.SignerSigned
	s.SignedAt = &at
	return true, nil
}

func (r *fakeSignerRepo) MarkRejected(ctx context.Context, id int64, reason string, at time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.signers[id]
	if !ok || s.Status != entity.SignerPending {
		return false, nil
	}
	s.Status = entity.SignerRejected
	s.RejectionReason = reason
	s.RejectedAt = &at
	return true, nil
}

type fakePlacementRepo struct {
	mu         sync.Mutex
	seq        int64
	placements map[int64]*entity.Placement
}

func newFakePlacementRepo() *fakePlacementRepo {
	return &fakePlacementRepo{placements: map[int64]*entity.Placement{}}
}

func (r *fakePlacementRepo) Create(ctx context.Context, p *entity.Placement) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	p.ID = r.seq
	p.CreatedAt = time.Now()
	cp := *p
	r.placements[p.ID] = &cp
	return nil
}

func (r *fakePlacementRepo) FindByID(ctx context.Context, id int64) (*entity.Placement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.placements[id]
	if !ok {
		return nil, entity.ErrPlacementNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *fakePlacementRepo) FindByDocument(ctx context.Context, documentID int64) ([]entity.Placement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.Placement
	for _, p := range r.placements {
		if p.DocumentID == documentID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *fakePlacementRepo) FindSignedByDocument(ctx context.Context, documentID int64) ([]entity.Placement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.Placement
	for _, p := range r.placements {
		if p.DocumentID == documentID && p.Status == entity.PlacementSigned {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *fakePlacementRepo) UpdateGeometry(ctx context.Context, id int64, geom entity.Geometry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.placements[id]
	if !ok {
		return entity.ErrPlacementNotFound
	}
	p.Geometry = geom
	return nil
}

func (r *fakePlacementRepo) MarkSigned(ctx context.Context, id int64, text, font, imagePath string, at time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.placements[id]
	if !ok || p.Status != entity.PlacementPending {
		return false, nil
	}
	p.Status = entity.PlacementSigned
	p.Text = text
	p.Font = font
	p.ImagePath = imagePath
	p.SignedAt = &at
	return true, nil
}

func (r *fakePlacementRepo) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.placements[id]; !ok {
		return entity.ErrPlacementNotFound
	}
	delete(r.placements, id)
	return nil
}

type fakeAuditRepo struct {
	mu   sync.Mutex
	logs []entity.AuditLog
}

func (r *fakeAuditRepo) Save(ctx context.Context, log *entity.AuditLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	log.ID = int64(len(r.logs) + 1)
	log.CreatedAt = time.Now()
	r.logs = append(r.logs, *log)
	return nil
}

func (r *fakeAuditRepo) FindByDocument(ctx context.Context, documentID int64, limit int) ([]entity.AuditLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.AuditLog
	for _, l := range r.logs {
		if l.DocumentID == documentID {
			out = append(out, l)
		}
	}
	return out, nil
}

func (r *fakeAuditRepo) actions() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.logs))
	for i, l := range r.logs {
		out[i] = l.Action
	}
	return out
}

type fakeNotifier struct {
	mu   sync.Mutex
	sent []usecase.Notification
}

func (n *fakeNotifier) Notify(ctx context.Context, notification *usecase.Notification) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, *notification)
	return nil
}

// byKind returns recipient emails of every sent notification of the
// given kind, in delivery order.
func (n *fakeNotifier) byKind(kind usecase.NotificationKind) []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	var out []string
	for _, sent := range n.sent {
		if sent.Kind == kind {
			out = append(out, sent.RecipientEmail)
		}
	}
	return out
}

func (n *fakeNotifier) reset() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = nil
}

type fakeLocker struct {
	mu    sync.Mutex
	locks map[int64]*sync.Mutex
}

func newFakeLocker() *fakeLocker {
	return &fakeLocker{locks: map[int64]*sync.Mutex{}}
}

func (l *fakeLocker) Acquire(ctx context.Context, documentID int64) (func(), error) {
	l.mu.Lock()
	m, ok := l.locks[documentID]
	if !ok {
		m = &sync.Mutex{}
		l.locks[documentID] = m
	}
	l.mu.Unlock()

	m.Lock()
	return m.Unlock, nil
}

type fakeCompositor struct {
	mu    sync.Mutex
	calls int
	fail  error
}

func (c *fakeCompositor) Compose(ctx context.Context, source []byte, placements []usecase.SignedPlacement) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls++
	if c.fail != nil {
		return nil, c.fail
	}
	return []byte(fmt.Sprintf("composite of %d bytes, %d placements", len(source), len(placements))), nil
}

func (c *fakeCompositor) composeCalls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}

type fakeStore struct {
	mu    sync.Mutex
	seq   int
	files map[string][]byte
}

func newFakeStore() *fakeStore {
	return &fakeStore{files: map[string][]byte{}}
}

func (s *fakeStore) save(prefix string, content []byte) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	path := fmt.Sprintf("%s/%d", prefix, s.seq)
	s.files[path] = append([]byte(nil), content...)
	return path, nil
}

func (s *fakeStore) SaveUpload(originalFilename string, content []byte) (string, error) {
	return s.save("uploads", content)
}

func (s *fakeStore) SaveSignatureImage(placementID int64, content []byte) (string, error) {
	return s.save("signatures", content)
}

func (s *fakeStore) SaveComposite(originalFilename string, content []byte) (string, error) {
	return s.save("signed", content)
}

func (s *fakeStore) Read(path string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	content, ok := s.files[path]
	if !ok {
		return nil, fmt.Errorf("file %s not found", path)
	}
	return append([]byte(nil), content...), nil
}

func (s *fakeStore) Remove(path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.files, path)
	return nil
}
