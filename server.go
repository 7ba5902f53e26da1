package main

import (
	"context"
	"errors"
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/mrsingh-rishi/interview-voice/audio"
	"github.com/mrsingh-rishi/interview-voice/llm"
	"github.com/mrsingh-rishi/interview-voice/model"
	"github.com/mrsingh-rishi/interview-voice/pipeline"
	"github.com/mrsingh-rishi/interview-voice/session"
	"github.com/mrsingh-rishi/interview-voice/stt"
)

const quotaMessage = "Free usage limit reached. Activate premium to continue."

// listener is the audio pipeline as the handlers see it.
type listener interface {
	Listen(ctx context.Context, req pipeline.Request) (model.ListenResult, error)
}

type server struct {
	pipe       listener
	completer  llm.Completer
	sessions   *session.Store
	founderKey string
}

func newApp(s *server) *fiber.App {
	app := fiber.New()
	app.Use(recover.New())
	app.Use(logger.New())

	app.Get("/", s.handleLanding)
	app.Get("/listen", s.handleListenPage)
	app.Get("/health", func(c *fiber.Ctx) error { return c.SendString("ok") })

	app.Post("/interview_listen", s.handleInterviewListen)
	app.Post("/interview_answer", s.handleInterviewAnswer)
	app.Post("/interview_regen", s.handleInterviewRegen)

	app.Post("/activate_premium", s.handleActivatePremium)
	app.Get("/premium", s.handlePremiumPage)

	// Only the admin page itself hard-denies non-founders; the flag
	// endpoints are deliberately open toys, same as the cookie they mutate.
	app.Get("/admin", s.requireFounder(s.handleAdminPage))
	app.Get("/admin_status", s.handleAdminStatus)
	app.Post("/admin_reset_uses", s.mutateAccess(func(a *session.Access) { a.Uses = 0 }))
	app.Post("/admin_enable_premium", s.mutateAccess(func(a *session.Access) { a.Premium = true }))
	app.Post("/admin_disable_premium", s.mutateAccess(func(a *session.Access) { a.Premium = false }))
	app.Post("/admin_switch_to_founder", s.mutateAccess(func(a *session.Access) { a.Founder = true }))
	app.Post("/admin_switch_to_user", s.mutateAccess(func(a *session.Access) { a.Founder = false }))
	app.Post("/admin_clear_session", s.handleClearSession)

	return app
}

func (s *server) handleLanding(c *fiber.Ctx) error {
	c.Type("html")
	return c.SendString(landingHTML)
}

func (s *server) handleListenPage(c *fiber.Ctx) error {
	if key := c.Query("key"); key != "" && s.founderKey != "" && key == s.founderKey {
		access, err := s.sessions.Load(c)
		if err == nil {
			access.Founder = true
			if err := s.sessions.Save(c, access); err != nil {
				log.Printf("failed to save founder flag: %v", err)
			}
		}
	}
	c.Type("html")
	return c.SendString(listenHTML)
}

func (s *server) handleInterviewListen(c *fiber.Ctx) error {
	// Missing audio is answered before the quota so the 400 contract holds
	// for exhausted sessions too.
	fh, err := c.FormFile("audio")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"question":          "(no audio)",
			"answer":            "No audio detected.",
			"detected_language": nil,
		})
	}

	access, err := s.sessions.Load(c)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "session unavailable"})
	}
	if !access.Allow() {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": quotaMessage})
	}

	f, err := fh.Open()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"question": "",
			"answer":   "Audio conversion failed.",
		})
	}
	defer f.Close()

	res, err := s.pipe.Listen(c.UserContext(), pipeline.Request{
		Audio:          f,
		Filename:       fh.Filename,
		InputLanguage:  c.FormValue("language", "auto"),
		OutputLanguage: c.FormValue("output_language", "same"),
	})
	if err != nil {
		switch {
		case errors.Is(err, audio.ErrConversion):
			log.Printf("ffmpeg conversion failed: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"question": "",
				"answer":   "Audio conversion failed.",
			})
		case errors.Is(err, stt.ErrTranscription):
			log.Printf("transcription failed: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"question":          "(error)",
				"answer":            "Transcription failed.",
				"detected_language": nil,
			})
		}
		log.Printf("interview_listen failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"question": "",
			"answer":   "Something went wrong.",
		})
	}

	if !access.Unlimited() {
		access.Uses++
		if err := s.sessions.Save(c, access); err != nil {
			log.Printf("failed to save usage counter: %v", err)
		}
	}

	return c.JSON(res)
}

func (s *server) handleInterviewAnswer(c *fiber.Ctx) error {
	var req struct {
		Question   string `json:"question"`
		JobRole    string `json:"job_role"`
		Background string `json:"background"`
	}
	if err := c.BodyParser(&req); err != nil {
		log.Printf("interview_answer bad body: %v", err)
	}

	question := strings.TrimSpace(req.Question)
	if question == "" {
		return c.JSON(fiber.Map{"answer": "Please type a question."})
	}

	prompt := llm.AnswerPrompt(question, strings.TrimSpace(req.JobRole), strings.TrimSpace(req.Background))
	answer, err := s.completer.Complete(c.UserContext(), prompt)
	if err != nil {
		log.Printf("interview_answer completion failed: %v", err)
		return c.JSON(fiber.Map{"answer": "Error generating answer."})
	}
	return c.JSON(fiber.Map{"answer": answer})
}

func (s *server) handleInterviewRegen(c *fiber.Ctx) error {
	var req struct {
		Text string `json:"text"`
	}
	if err := c.BodyParser(&req); err != nil {
		log.Printf("interview_regen bad body: %v", err)
	}

	text := strings.TrimSpace(req.Text)
	if text == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"answer": "(no text)"})
	}

	answer, err := s.completer.Complete(c.UserContext(), llm.RegenPrompt(text))
	if err != nil {
		log.Printf("interview_regen completion failed: %v", err)
		return c.JSON(fiber.Map{"answer": "Error regenerating answer."})
	}
	return c.JSON(fiber.Map{"answer": answer})
}

func (s *server) handleActivatePremium(c *fiber.Ctx) error {
	access, err := s.sessions.Load(c)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "session unavailable"})
	}
	access.Premium = true
	if err := s.sessions.Save(c, access); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "session unavailable"})
	}
	return c.JSON(fiber.Map{"premium": true})
}

func (s *server) handlePremiumPage(c *fiber.Ctx) error {
	c.Type("html")
	return c.SendString(premiumHTML)
}

func (s *server) requireFounder(h fiber.Handler) fiber.Handler {
	return func(c *fiber.Ctx) error {
		access, err := s.sessions.Load(c)
		if err != nil || !access.Founder {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "founder access required"})
		}
		return h(c)
	}
}

func (s *server) handleAdminPage(c *fiber.Ctx) error {
	c.Type("html")
	return c.SendString(adminHTML)
}

func (s *server) handleAdminStatus(c *fiber.Ctx) error {
	access, err := s.sessions.Load(c)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "session unavailable"})
	}
	return c.JSON(access)
}

// mutateAccess builds a handler that applies fn to the caller's Access and
// reports the updated state.
func (s *server) mutateAccess(fn func(*session.Access)) fiber.Handler {
	return func(c *fiber.Ctx) error {
		access, err := s.sessions.Load(c)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "session unavailable"})
		}
		fn(&access)
		if err := s.sessions.Save(c, access); err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "session unavailable"})
		}
		return c.JSON(access)
	}
}

func (s *server) handleClearSession(c *fiber.Ctx) error {
	if err := s.sessions.Clear(c); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "session unavailable"})
	}
	return c.JSON(fiber.Map{"cleared": true})
}
