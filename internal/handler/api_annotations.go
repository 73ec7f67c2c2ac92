// @title           BindValue API
// @version         1.0
// @description     Session status and liveness endpoints of the BindValue site. Requests carry the browser session cookie.
// @BasePath        /
package handler
