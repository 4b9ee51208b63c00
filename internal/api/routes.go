package api

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes mounts the book and theme endpoints under /api.
func RegisterRoutes(r chi.Router, books *BookHandler, themes *ThemeHandler) {
	r.Route("/api", func(r chi.Router) {
		r.Get("/themes", themes.ListThemes)

		r.Post("/subjects/{subjectID}/books", books.CreateBook)

		r.Route("/books/{bookID}", func(r chi.Router) {
			r.Get("/", books.GetBook)
			r.Delete("/", books.DeleteBook)

			r.Post("/generate", books.GenerateBook)
			r.Post("/curate", books.CurateBook)
			r.Post("/clear", books.ClearBook)

			r.Post("/pages", books.AddPage)
			r.Post("/pages/reorder", books.ReorderPages)
			r.Delete("/pages/{pageID}", books.RemovePage)
			r.Put("/pages/{pageID}/caption", books.SetCaption)

			r.Patch("/cover", books.UpdateCover)
			r.Put("/layout", books.SetLayout)

			r.Get("/preview", books.PreviewBook)
			r.Post("/export", books.ExportBook)
		})
	})
}
