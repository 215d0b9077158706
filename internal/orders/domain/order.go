package domain

import "time"

type Article struct {
	ID   int
	Name string
}

// Purchase records an article bought by a user. The article is stored by
// name, as it was shown when bought.
type Purchase struct {
	ID          string
	Username    string
	ArticleName string
	CreatedAt   time.Time
}
