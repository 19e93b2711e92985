package service

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"go.mongodb.org/mongo-driver/mongo"

	"tracker_bot/internal/tracker"
)

type stubSourceRepository struct {
	sources    map[int64][]string
	deleted    []string
	addManyErr error
}

func (s *stubSourceRepository) AddMany(ctx context.Context, userID int64, handles []string) (int, error) {
	if s.addManyErr != nil {
		return 0, s.addManyErr
	}
	if s.sources == nil {
		s.sources = make(map[int64][]string)
	}
	added := 0
	for _, h := range handles {
		exists := false
		for _, e := range s.sources[userID] {
			if e == h {
				exists = true
				break
			}
		}
		if !exists {
			s.sources[userID] = append(s.sources[userID], h)
			added++
		}
	}
	return added, nil
}

func (s *stubSourceRepository) ListByUser(ctx context.Context, userID int64) ([]string, error) {
	return s.sources[userID], nil
}

func (s *stubSourceRepository) Delete(ctx context.Context, userID int64, handle string) error {
	s.deleted = append(s.deleted, handle)
	kept := s.sources[userID][:0]
	for _, h := range s.sources[userID] {
		if h != handle {
			kept = append(kept, h)
		}
	}
	s.sources[userID] = kept
	return nil
}

func (s *stubSourceRepository) EnsureIndexes(ctx context.Context) error { return nil }

type stubKeywordRepository struct {
	words map[int64][]string
}

func (s *stubKeywordRepository) AddMany(ctx context.Context, userID int64, words []string) (int, error) {
	if s.words == nil {
		s.words = make(map[int64][]string)
	}
	s.words[userID] = append(s.words[userID], words...)
	return len(words), nil
}

func (s *stubKeywordRepository) ListByUser(ctx context.Context, userID int64) ([]string, error) {
	return s.words[userID], nil
}

func (s *stubKeywordRepository) Delete(ctx context.Context, userID int64, word string) error {
	kept := s.words[userID][:0]
	for _, w := range s.words[userID] {
		if w != word {
			kept = append(kept, w)
		}
	}
	s.words[userID] = kept
	return nil
}

func (s *stubKeywordRepository) EnsureIndexes(ctx context.Context) error { return nil }

type stubTargetRepository struct {
	targets map[int64]string
}

func (s *stubTargetRepository) Set(ctx context.Context, userID int64, handle string) error {
	if s.targets == nil {
		s.targets = make(map[int64]string)
	}
	s.targets[userID] = handle
	return nil
}

func (s *stubTargetRepository) Get(ctx context.Context, userID int64) (string, error) {
	h, ok := s.targets[userID]
	if !ok {
		return "", mongo.ErrNoDocuments
	}
	return h, nil
}

func (s *stubTargetRepository) EnsureIndexes(ctx context.Context) error { return nil }

func newTestConfigService() (*stubSourceRepository, *stubKeywordRepository, *stubTargetRepository, TrackingConfigService) {
	src := &stubSourceRepository{}
	kw := &stubKeywordRepository{}
	tg := &stubTargetRepository{}
	return src, kw, tg, NewTrackingConfigService(src, kw, tg)
}

func TestNormalizeHandle(t *testing.T) {
	tests := []struct {
		input   string
		want    string
		wantErr bool
	}{
		{"@RealEstateMsk", "@realestatemsk", false},
		{"RealEstateMsk", "@realestatemsk", false},
		{"t.me/some_channel", "@some_channel", false},
		{"https://t.me/some_channel/", "@some_channel", false},
		{"@ab", "", true},
		{"@has space", "", true},
		{"@5starts_with_digit", "", true},
		{"", "", true},
		{"https://t.me/", "", true},
	}

	for _, tt := range tests {
		got, err := NormalizeHandle(tt.input)
		if tt.wantErr {
			if !errors.Is(err, ErrBadHandle) {
				t.Errorf("NormalizeHandle(%q): expected ErrBadHandle, got %v", tt.input, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("NormalizeHandle(%q): unexpected error %v", tt.input, err)
			continue
		}
		if got != tt.want {
			t.Errorf("NormalizeHandle(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestParseHandlesSkipsInvalidAndDuplicates(t *testing.T) {
	got := ParseHandles("@chan_one, t.me/chan_two\n@chan_one bad! @chan_two")
	want := []string{"@chan_one", "@chan_two"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ParseHandles = %v, want %v", got, want)
	}
}

func TestParseKeywordsSplitsOnCommaAndNewline(t *testing.T) {
	got := ParseKeywords("Продажа, аренда\nПРОДАЖА,  скидка ")
	want := []string{"продажа", "аренда", "скидка"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ParseKeywords = %v, want %v", got, want)
	}
}

func TestAddSourcesNormalizesAndCountsNew(t *testing.T) {
	src, _, _, svc := newTestConfigService()

	added, err := svc.AddSources(context.Background(), 42, "@chan_one t.me/chan_two")
	if err != nil {
		t.Fatalf("AddSources failed: %v", err)
	}
	if added != 2 {
		t.Errorf("expected 2 added, got %d", added)
	}

	// 重复添加不增加计数
	added, err = svc.AddSources(context.Background(), 42, "@chan_one")
	if err != nil {
		t.Fatalf("AddSources failed: %v", err)
	}
	if added != 0 {
		t.Errorf("expected 0 added on duplicate, got %d", added)
	}

	if len(src.sources[42]) != 2 {
		t.Errorf("expected 2 stored sources, got %v", src.sources[42])
	}
}

func TestAddSourcesRejectsAllInvalidInput(t *testing.T) {
	_, _, _, svc := newTestConfigService()

	if _, err := svc.AddSources(context.Background(), 42, "not a handle!!!"); !errors.Is(err, ErrBadHandle) {
		t.Errorf("expected ErrBadHandle, got %v", err)
	}
}

func TestDeleteSourceNormalizesHandle(t *testing.T) {
	src, _, _, svc := newTestConfigService()
	_, _ = svc.AddSources(context.Background(), 42, "@chan_one")

	if err := svc.DeleteSource(context.Background(), 42, "t.me/Chan_One"); err != nil {
		t.Fatalf("DeleteSource failed: %v", err)
	}
	if len(src.sources[42]) != 0 {
		t.Errorf("expected source deleted, got %v", src.sources[42])
	}
}

func TestPruneSourceDeletesWithoutValidation(t *testing.T) {
	src, _, _, svc := newTestConfigService()
	_, _ = svc.AddSources(context.Background(), 42, "@chan_one")

	// 引擎传来的 handle 已是库里的原样值，不再走格式校验
	if err := svc.PruneSource(context.Background(), 42, "@chan_one"); err != nil {
		t.Fatalf("PruneSource failed: %v", err)
	}
	if len(src.deleted) != 1 || src.deleted[0] != "@chan_one" {
		t.Errorf("unexpected delete calls: %v", src.deleted)
	}
}

func TestGetTargetMapsMissingToErrNoTarget(t *testing.T) {
	_, _, _, svc := newTestConfigService()

	if _, err := svc.GetTarget(context.Background(), 42); !errors.Is(err, tracker.ErrNoTarget) {
		t.Errorf("expected tracker.ErrNoTarget, got %v", err)
	}

	if err := svc.SetTarget(context.Background(), 42, "@my_target_group"); err != nil {
		t.Fatalf("SetTarget failed: %v", err)
	}
	got, err := svc.GetTarget(context.Background(), 42)
	if err != nil {
		t.Fatalf("GetTarget failed: %v", err)
	}
	if got != "@my_target_group" {
		t.Errorf("GetTarget = %q", got)
	}
}

func TestConfigServiceImplementsTrackerConfigStore(t *testing.T) {
	_, _, _, svc := newTestConfigService()
	if _, ok := svc.(tracker.ConfigStore); !ok {
		t.Fatal("TrackingConfigService must satisfy tracker.ConfigStore")
	}
}
