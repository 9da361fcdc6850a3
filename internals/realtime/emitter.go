package realtime

import (
	"context"
	"sort"
	"strings"

	"github.com/google/uuid"
)

// Nama event realtime yang dipakai workflow verifikasi & chat.
const (
	EventNewMessage           = "newMessage"
	EventNewNotification      = "newNotification"
	EventImamApproved         = "imamApproved"
	EventImamDenied           = "imamDenied"
	EventVerificationApproved = "verificationApproved"
	EventVerificationDenied   = "verificationDenied"
	EventPhotoAccessApproved  = "photoAccessApproved"
	EventWaliAccessApproved   = "waliAccessApproved"
)

// Emitter: fan-out realtime yang di-inject ke controller/service.
// Implementasi delivery (socket gateway) ada di service lain; di sini
// cukup publish. Semua pemanggilan bersifat fire-and-forget di sisi caller.
type Emitter interface {
	EmitToUser(ctx context.Context, userID uuid.UUID, event string, payload any) error
	EmitToRoom(ctx context.Context, roomID string, event string, payload any) error
}

// RoomID membentuk id room deterministik untuk dua user:
// kedua uuid diurutkan lalu digabung, jadi kedua sisi selalu
// menghitung room yang sama.
func RoomID(a, b uuid.UUID) string {
	ids := []string{a.String(), b.String()}
	sort.Strings(ids)
	return strings.Join(ids, ":")
}
