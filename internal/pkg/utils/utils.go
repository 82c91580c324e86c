package utils

import (
	"net/url"
)

// URLToLog hides password in URL
func URLToLog(link string) string {
	u, err := url.Parse(link)
	if err == nil {
		if u.User != nil {
			if _, ok := u.User.Password(); ok {
				u.User = url.UserPassword(u.User.Username(), "xxxx")
			}
		}
		return u.String()
	}
	return link
}
