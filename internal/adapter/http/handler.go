package http

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"portfolio-server/internal/domain"
	"portfolio-server/internal/model"
	"portfolio-server/internal/usecase"

	"github.com/gofiber/fiber/v2"
)

// ContactStore persists inbound contact messages.
type ContactStore interface {
	SaveContactMessage(ctx context.Context, name, email, message string) bool
	FetchContactMessages(ctx context.Context) ([]domain.ContactMessage, error)
}

// Notifier delivers a best-effort notification for a new contact message.
type Notifier interface {
	SendContactNotification(name, email, message string) error
}

type Handler struct {
	coordinator *usecase.Coordinator
	gate        *usecase.Gate
	contacts    ContactStore
	notifier    Notifier
}

func NewHandler(c *usecase.Coordinator, g *usecase.Gate, contacts ContactStore, notifier Notifier) *Handler {
	return &Handler{coordinator: c, gate: g, contacts: contacts, notifier: notifier}
}

// Register mounts all routes. Admin routes sit behind the role gate;
// everything else is public.
func (h *Handler) Register(app *fiber.App) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	app.Use(h.roleMiddleware)

	api := app.Group("/api")
	api.Get("/portfolio", h.GetPortfolio)
	api.Post("/contact", h.SubmitContact)
	api.Post("/admin/login", h.Login)
	api.Post("/admin/logout", h.Logout)

	admin := api.Group("", requireAdmin)
	admin.Put("/portfolio/:section", h.UpdateSection)
	admin.Post("/portfolio/save", h.SaveAll)
	admin.Post("/sync/github", h.SyncGitHub)
	admin.Post("/admin/credential", h.SetCredential)
	admin.Delete("/admin/credential", h.ClearCredential)
	admin.Get("/admin/messages", h.ListMessages)
	admin.Get("/export", h.Export)
	admin.Post("/import", h.Import)
}

func (h *Handler) GetPortfolio(c *fiber.Ctx) error {
	return c.JSON(h.coordinator.Load(c.Context()))
}

func (h *Handler) UpdateSection(c *fiber.Ctx) error {
	section := c.Params("section")
	if len(c.Body()) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "empty payload"})
	}
	if err := h.coordinator.UpdateSection(c.Context(), section, c.Body()); err != nil {
		if errors.Is(err, domain.ErrUnknownSection) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "unknown section"})
		}
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid payload"})
	}
	return c.JSON(fiber.Map{"status": "updated", "section": section})
}

// SaveAll is the explicit save action: unlike the per-edit auto-save its
// outcome is reported back to the admin.
func (h *Handler) SaveAll(c *fiber.Ctx) error {
	if !h.coordinator.SaveAll(c.Context()) {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "table store save failed"})
	}
	return c.JSON(fiber.Map{"status": "saved"})
}

type syncReq struct {
	Message string `json:"message"`
}

func (h *Handler) SyncGitHub(c *fiber.Ctx) error {
	var req syncReq
	if err := c.BodyParser(&req); err != nil && len(c.Body()) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid payload"})
	}
	err := h.coordinator.SyncToGitHub(c.Context(), req.Message)
	switch {
	case errors.Is(err, usecase.ErrNoCredential):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "github credential required"})
	case err != nil:
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "github sync failed"})
	}
	return c.JSON(fiber.Map{"status": "synced"})
}

type credentialReq struct {
	Token string `json:"token"`
}

func (h *Handler) SetCredential(c *fiber.Ctx) error {
	var req credentialReq
	if err := c.BodyParser(&req); err != nil || strings.TrimSpace(req.Token) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "token required"})
	}
	if err := h.coordinator.SetCredential(strings.TrimSpace(req.Token)); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "could not store credential"})
	}
	return c.JSON(fiber.Map{"status": "stored"})
}

func (h *Handler) ClearCredential(c *fiber.Ctx) error {
	if err := h.coordinator.ClearCredential(); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "could not clear credential"})
	}
	return c.JSON(fiber.Map{"status": "cleared"})
}

type contactReq struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

func (h *Handler) SubmitContact(c *fiber.Ctx) error {
	var req contactReq
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid payload"})
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	req.Message = strings.TrimSpace(req.Message)
	if req.Name == "" || req.Email == "" || req.Message == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "name, email and message are required"})
	}

	if !h.contacts.SaveContactMessage(c.Context(), req.Name, req.Email, req.Message) {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "message could not be saved, please try again later"})
	}

	if h.notifier != nil {
		go func(name, email, message string) {
			if err := h.notifier.SendContactNotification(name, email, message); err != nil {
				log.Printf("warning: contact notification not sent: %v", err)
			}
		}(req.Name, req.Email, req.Message)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"status": "received"})
}

func (h *Handler) ListMessages(c *fiber.Ctx) error {
	msgs, err := h.contacts.FetchContactMessages(c.Context())
	if err != nil {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "could not load messages"})
	}
	if msgs == nil {
		msgs = []domain.ContactMessage{}
	}
	return c.JSON(fiber.Map{"messages": msgs, "count": len(msgs)})
}

type loginReq struct {
	Password string `json:"password"`
}

func (h *Handler) Login(c *fiber.Ctx) error {
	var req loginReq
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid payload"})
	}
	token, ok := h.gate.Login(req.Password)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid password"})
	}
	c.Cookie(&fiber.Cookie{
		Name:     sessionCookie,
		Value:    token,
		HTTPOnly: true,
		SameSite: "Strict",
		Expires:  time.Now().Add(12 * time.Hour),
	})
	return c.JSON(fiber.Map{"role": domain.RoleAdmin.String()})
}

func (h *Handler) Logout(c *fiber.Ctx) error {
	c.Cookie(&fiber.Cookie{
		Name:     sessionCookie,
		Value:    "",
		HTTPOnly: true,
		SameSite: "Strict",
		Expires:  time.Now().Add(-time.Hour),
	})
	return c.JSON(fiber.Map{"role": domain.RoleGuest.String()})
}

func (h *Handler) Export(c *fiber.Ctx) error {
	doc := h.coordinator.Export(c.Context())
	c.Set(fiber.HeaderContentDisposition,
		fmt.Sprintf(`attachment; filename=portfolio-backup-%s.json`, time.Now().Format("2006-01-02")))
	return c.JSON(doc)
}

// Import merges only the keys present in the uploaded document; the
// in-memory snapshot is invalidated so the next read reloads from
// persisted state.
func (h *Handler) Import(c *fiber.Ctx) error {
	body := c.Body()
	if len(body) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "empty document"})
	}
	if err := model.ValidateImport(body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if err := h.coordinator.Import(body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "import failed"})
	}
	return c.JSON(fiber.Map{"status": "imported", "reload": true})
}
