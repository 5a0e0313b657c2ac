package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/tanakritw/officestock-backend/internal/rooms"
	pkgerrors "github.com/tanakritw/officestock-backend/pkg/errors"
)

type stubRooms struct {
	renameFn func(ctx context.Context, oldName, newName string) (*rooms.RenameResult, error)
	deleteFn func(ctx context.Context, location string) error
}

func (s stubRooms) Rename(ctx context.Context, oldName, newName string) (*rooms.RenameResult, error) {
	if s.renameFn != nil {
		return s.renameFn(ctx, oldName, newName)
	}
	return &rooms.RenameResult{}, nil
}

func (s stubRooms) Delete(ctx context.Context, location string) error {
	if s.deleteFn != nil {
		return s.deleteFn(ctx, location)
	}
	return nil
}

func TestRoomRename(t *testing.T) {
	svc := stubRooms{
		renameFn: func(ctx context.Context, oldName, newName string) (*rooms.RenameResult, error) {
			if oldName != "Room 101" || newName != "Room 105" {
				t.Fatalf("unexpected names %q -> %q", oldName, newName)
			}
			return &rooms.RenameResult{StoragesMoved: 2}, nil
		},
	}

	handler := RoomRename(svc, nil)
	body := `{"old_name":"Room 101","new_name":"Room 105"}`
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	result := decodeEnvelope[rooms.RenameResult](t, resp)
	if result.StoragesMoved != 2 {
		t.Fatalf("unexpected payload %+v", result)
	}
}

func TestRoomRenameValidation(t *testing.T) {
	handler := RoomRename(stubRooms{}, nil)
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"old_name":"Room 101"}`))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestRoomDeleteNotFound(t *testing.T) {
	svc := stubRooms{
		deleteFn: func(ctx context.Context, location string) error {
			return pkgerrors.New(pkgerrors.CodeNotFound, "room not found")
		},
	}

	handler := RoomDelete(svc, nil)
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"location":"Room 999"}`))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", resp.Code)
	}
}
