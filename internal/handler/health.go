package handler // declare the package name; contains HTTP handlers

import (
    "net/http" // net/http provides status codes

    "github.com/labstack/echo/v4" // echo is the web framework used for this project
)

// Ping is the liveness endpoint polled by load balancers.
func Ping(c echo.Context) error {
    return c.JSON(http.StatusOK, map[string]string{"ping": "pong"})
}
