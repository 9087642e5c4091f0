package handler

import (
	"fmt"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"dealdocs/internal/service"
)

// parseID reads a positive integer route parameter.
func parseID(c *fiber.Ctx, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Params(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s", name)
	}
	return id, nil
}

// UploadDocument stores a multipart upload (field name: file) as a new
// blob-backed document under the deal in the path.
func UploadDocument(docs service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		dealID, err := parseID(c, "dealID")
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid deal id")
		}

		fh, err := c.FormFile("file")
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_REQUIRED", "file is required")
		}
		f, err := fh.Open()
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot open uploaded file")
		}
		defer f.Close()

		ct := fh.Header.Get("Content-Type")
		if ct == "" {
			ct = "application/octet-stream"
		}

		doc, err := docs.Store(c.UserContext(), service.StoreInput{
			DealID:       dealID,
			FileName:     fh.Filename,
			FileType:     ct,
			DocumentType: c.FormValue("document_type"),
			Description:  c.FormValue("description"),
			UploadedBy:   c.Get("X-Uploader"),
			Content:      f,
			Size:         fh.Size,
		})
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(doc)
	}
}

// ListDealDocuments lists a deal's documents with limit & offset.
func ListDealDocuments(iso service.IsolationService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		dealID, err := parseID(c, "dealID")
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid deal id")
		}

		limit, err := strconv.Atoi(c.Query("limit", "10"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_LIMIT", "invalid limit")
		}
		offset, err := strconv.Atoi(c.Query("offset", "0"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_OFFSET", "invalid offset")
		}

		res, err := iso.ListForDeal(c.UserContext(), dealID, limit, offset)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(res)
	}
}

// GetDocument returns a document's metadata, without its payload.
func GetDocument(docs service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		dealID, err := parseID(c, "dealID")
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid deal id")
		}
		id, err := parseID(c, "id")
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid document id")
		}

		sum, err := docs.Get(c.UserContext(), id, dealID)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(sum)
	}
}

// DownloadDocument streams a document's bytes with a Content-Disposition
// attachment header.
func DownloadDocument(docs service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		dealID, err := parseID(c, "dealID")
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid deal id")
		}
		id, err := parseID(c, "id")
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid document id")
		}

		res, err := docs.Retrieve(c.UserContext(), id, dealID)
		if err != nil {
			return writeServiceError(c, err)
		}

		c.Set(fiber.HeaderContentType, res.FileType)
		c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", res.FileName))
		// fasthttp closes the stream once the body is written.
		if res.Size > 0 {
			return c.SendStream(res.Content, int(res.Size))
		}
		return c.SendStream(res.Content)
	}
}

// MoveDocument reassigns a document to another deal and returns the audit
// record of the move.
func MoveDocument(iso service.IsolationService) fiber.Handler {
	type moveRequest struct {
		ToDealID int64  `json:"to_deal_id"`
		Reason   string `json:"reason"`
	}

	return func(c *fiber.Ctx) error {
		dealID, err := parseID(c, "dealID")
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid deal id")
		}
		id, err := parseID(c, "id")
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid document id")
		}

		var req moveRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "malformed request body")
		}

		// The path's deal is the caller's claim of current ownership.
		if err := iso.AssertOwnership(c.UserContext(), id, dealID); err != nil {
			return writeServiceError(c, err)
		}

		mv, err := iso.Move(c.UserContext(), id, req.ToDealID, req.Reason)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(mv)
	}
}

// DocumentHistory returns the document's move trail, oldest first as stored.
func DocumentHistory(iso service.IsolationService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		dealID, err := parseID(c, "dealID")
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid deal id")
		}
		id, err := parseID(c, "id")
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid document id")
		}

		if err := iso.AssertOwnership(c.UserContext(), id, dealID); err != nil {
			return writeServiceError(c, err)
		}

		trail, err := iso.History(c.UserContext(), id)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(fiber.Map{"data": trail})
	}
}

// DeleteDocument removes the metadata row and any blob payload. Filesystem
// bytes are never touched.
func DeleteDocument(docs service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		dealID, err := parseID(c, "dealID")
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid deal id")
		}
		id, err := parseID(c, "id")
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid document id")
		}

		if err := docs.Delete(c.UserContext(), id, dealID); err != nil {
			return writeServiceError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}
