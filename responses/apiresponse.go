package responses

// APIError interface for custom API errors
type APIError interface {
    Error() string
    StatusCode() int
}

type NotFoundError struct {
    Msg string
}

func (e NotFoundError) Error() string {
    return e.Msg
}

func (NotFoundError) StatusCode() int {
    return 404
}
