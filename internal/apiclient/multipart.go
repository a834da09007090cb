package apiclient

import (
	"bytes"
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strconv"

	"github.com/prohmpiriya/canteen-storefront/internal/domain"
)

// multipartBody is an encoded form with its boundary content type
type multipartBody struct {
	data        []byte
	contentType string
}

// encodeProductForm writes form as multipart/form-data. A non-empty
// methodOverride is sent as the _method field.
func encodeProductForm(form *domain.ProductForm, methodOverride string) (*multipartBody, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	fields := [][2]string{
		{"name", form.Name},
		{"description", form.Description},
		{"price", strconv.FormatInt(form.Price, 10)},
		{"stock", strconv.Itoa(form.Stock)},
	}
	if form.CategoryID != nil {
		fields = append(fields, [2]string{"category_id", strconv.Itoa(*form.CategoryID)})
	}
	if methodOverride != "" {
		fields = append(fields, [2]string{"_method", methodOverride})
	}

	for _, f := range fields {
		if err := w.WriteField(f[0], f[1]); err != nil {
			return nil, fmt.Errorf("failed to write form field %s: %w", f[0], err)
		}
	}

	if form.Image != nil {
		part, err := w.CreateFormFile("image", filepath.Base(form.Image.Filename))
		if err != nil {
			return nil, fmt.Errorf("failed to create image part: %w", err)
		}
		if _, err := part.Write(form.Image.Content); err != nil {
			return nil, fmt.Errorf("failed to write image: %w", err)
		}
	}

	if err := w.Close(); err != nil {
		return nil, err
	}
	return &multipartBody{data: buf.Bytes(), contentType: w.FormDataContentType()}, nil
}
