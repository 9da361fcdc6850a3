package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"nikahku_backend/internals/constants"
	"nikahku_backend/internals/features/mosques/attachments/controller"
	"nikahku_backend/internals/middlewares/auth"
	"nikahku_backend/internals/realtime"
)

// MosqueAttachmentRoutes: sisi member (attach/detach + status verifikasi)
// dan sisi imam (inbox keputusan).
func MosqueAttachmentRoutes(api fiber.Router, db *gorm.DB, rt realtime.Emitter) {
	ctrl := controller.NewMosqueAttachmentController(db, rt)

	member := api.Group("/mosque-attachments",
		auth.OnlyRoles(constants.RoleErrorMember("verifikasi masjid"), constants.MemberRoles...),
	)
	member.Post("/toggle", ctrl.ToggleAttachment)
	member.Get("/me", ctrl.GetMyAttachments)
	member.Get("/requests/me", ctrl.GetMyRequests)

	imam := api.Group("/imam/attachment-requests",
		auth.OnlyRoles(constants.RoleErrorImam("verifikasi jamaah"), constants.RoleImam),
	)
	imam.Get("/", ctrl.GetRequestsForImam)
	imam.Patch("/:id/approve", ctrl.ApproveRequest)
	imam.Patch("/:id/deny", ctrl.DenyRequest)
	imam.Patch("/:id/response", ctrl.UpdateResponse)
	imam.Patch("/:id/denial-reason", ctrl.UpdateDenialReason)
	imam.Patch("/:id/reset", ctrl.ResetToPending)
}
