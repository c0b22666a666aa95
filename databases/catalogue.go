// Package databases lists the SauceNAO indexes a search can be restricted to.
package databases

import (
	"fmt"
	"strconv"
	"strings"
)

// Database is one SauceNAO index. Code is the value sent as dbs[].
type Database struct {
	Code int
	Name string
}

func (d Database) String() string {
	return fmt.Sprintf("%s (%d)", d.Name, d.Code)
}

// catalogue is kept in the order the picker shows it
var catalogue = []Database{
	{0, "H-Magazines"},
	{2, "H-Game CG"},
	{3, "DoujinshiDB"},
	{5, "pixiv Images"},
	{6, "pixiv Historical"},
	{8, "Nico Nico Seiga"},
	{9, "Danbooru"},
	{10, "drawr Images"},
	{11, "Nijie Images"},
	{12, "Yande.re"},
	{15, "Shutterstock"},
	{16, "FAKKU"},
	{18, "H-Misc (nhentai)"},
	{19, "2D-Market"},
	{20, "MediBang"},
	{21, "Anime"},
	{22, "H-Anime"},
	{23, "Movies"},
	{24, "Shows"},
	{25, "Gelbooru"},
	{26, "Konachan"},
	{27, "Sankaku Channel"},
	{28, "Anime-Pictures.net"},
	{29, "e621.net"},
	{30, "Idol Complex"},
	{31, "bcy.net Illust"},
	{32, "bcy.net Cosplay"},
	{33, "PortalGraphics.net"},
	{34, "deviantArt"},
	{35, "Pawoo.net"},
	{36, "Madokami (Manga)"},
	{37, "MangaDex"},
	{38, "H-Misc (E-Hentai)"},
	{39, "ArtStation"},
	{40, "FurAffinity"},
	{41, "Twitter"},
	{42, "Furry Network"},
	{43, "Kemono"},
	{44, "Skeb"},
}

// Catalogue returns a copy of the known databases in display order
func Catalogue() []Database {
	out := make([]Database, len(catalogue))
	copy(out, catalogue)
	return out
}

// Names returns the display names in catalogue order
func Names() []string {
	names := make([]string, len(catalogue))
	for i, db := range catalogue {
		names[i] = db.Name
	}
	return names
}

// Lookup finds a database by its code
func Lookup(code int) (Database, bool) {
	if i := position(code); i >= 0 {
		return catalogue[i], true
	}
	return Database{}, false
}

// ByName finds a database by its display name, ignoring case
func ByName(name string) (Database, bool) {
	name = strings.TrimSpace(name)
	for _, db := range catalogue {
		if strings.EqualFold(db.Name, name) {
			return db, true
		}
	}
	return Database{}, false
}

// Parse accepts either a numeric code or a display name. Codes missing from
// the catalogue are accepted so that new indexes can be used before the list
// is updated.
func Parse(token string) (Database, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return Database{}, fmt.Errorf("empty database")
	}
	if code, err := strconv.Atoi(token); err == nil {
		if code < 0 {
			return Database{}, fmt.Errorf("invalid database code %d", code)
		}
		if db, ok := Lookup(code); ok {
			return db, nil
		}
		return Database{Code: code, Name: fmt.Sprintf("Database #%d", code)}, nil
	}
	if db, ok := ByName(token); ok {
		return db, nil
	}
	return Database{}, fmt.Errorf("unknown database %q", token)
}

func position(code int) int {
	for i, db := range catalogue {
		if db.Code == code {
			return i
		}
	}
	return -1
}
