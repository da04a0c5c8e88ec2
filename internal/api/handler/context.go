package handler

import (
	"io"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/neon-lab-dev/medhrplus-server/internal/api/middleware"
	"github.com/neon-lab-dev/medhrplus-server/internal/core/domain"
	"github.com/neon-lab-dev/medhrplus-server/internal/core/ports"
)

// ctxPrincipal returns the principal attached by a gate. A handler mounted
// without a gate fails fast instead of dereferencing nil.
func ctxPrincipal(c echo.Context) (*domain.Principal, error) {
	p := middleware.Principal(c)
	if p == nil || p.Account() == nil {
		return nil, domain.ErrUnauthenticated
	}
	return p, nil
}

func ctxEmployee(c echo.Context) (*domain.Employee, error) {
	e, _ := c.Get(string(domain.RoleEmployee)).(*domain.Employee)
	if e == nil {
		return nil, domain.ErrUnauthenticated
	}
	return e, nil
}

func ctxEmployer(c echo.Context) (*domain.Employer, error) {
	e, _ := c.Get(string(domain.RoleEmployer)).(*domain.Employer)
	if e == nil {
		return nil, domain.ErrUnauthenticated
	}
	return e, nil
}

func ctxAdmin(c echo.Context) (*domain.Admin, error) {
	a, _ := c.Get(string(domain.RoleAdmin)).(*domain.Admin)
	if a == nil {
		return nil, domain.ErrUnauthenticated
	}
	return a, nil
}

// formFile reads the multipart file field name. A missing file is reported
// as (nil, nil) so callers decide whether it is required.
func formFile(c echo.Context, name string) (*ports.File, error) {
	fh, err := c.FormFile(name)
	if err != nil {
		if err == http.ErrMissingFile || err == http.ErrNotMultipart {
			return nil, nil
		}
		return nil, domain.Errorf(domain.ErrValidation, "invalid %s upload", name)
	}
	return readFile(fh)
}

func readFile(fh *multipart.FileHeader) (*ports.File, error) {
	src, err := fh.Open()
	if err != nil {
		return nil, domain.Errorf(domain.ErrValidation, "cannot read %s", fh.Filename)
	}
	defer src.Close()

	content, err := io.ReadAll(src)
	if err != nil {
		return nil, domain.Errorf(domain.ErrValidation, "cannot read %s", fh.Filename)
	}
	return &ports.File{
		Name:        fh.Filename,
		ContentType: fh.Header.Get(echo.HeaderContentType),
		Content:     content,
	}, nil
}

// requiredFile is formFile for uploads the route cannot do without.
func requiredFile(c echo.Context, name string) (ports.File, error) {
	f, err := formFile(c, name)
	if err != nil {
		return ports.File{}, err
	}
	if f == nil {
		return ports.File{}, domain.Errorf(domain.ErrValidation, "%s is required", name)
	}
	return *f, nil
}

func formFloat(c echo.Context, name string) (float64, error) {
	v := c.FormValue(name)
	if v == "" {
		return 0, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, domain.Errorf(domain.ErrValidation, "%s must be a number", name)
	}
	return f, nil
}

func formInt(c echo.Context, name string) (int, error) {
	v := c.FormValue(name)
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, domain.Errorf(domain.ErrValidation, "%s must be a whole number", name)
	}
	return n, nil
}

func formBool(c echo.Context, name string) (bool, error) {
	v := c.FormValue(name)
	if v == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, domain.Errorf(domain.ErrValidation, "%s must be true or false", name)
	}
	return b, nil
}

// formList returns the repeated values of a multipart field. A single value
// holding a JSON array or a comma separated list is split as well.
func formList(c echo.Context, name string) []string {
	form, err := c.MultipartForm()
	if err != nil || form == nil {
		return splitList(c.FormValue(name))
	}
	vals := form.Value[name]
	if len(vals) == 0 {
		vals = form.Value[name+"[]"]
	}
	if len(vals) == 1 {
		return splitList(vals[0])
	}
	return vals
}
