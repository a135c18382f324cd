package utils

import (
	"math/rand"
	"strings"

	"github.com/mozillazg/go-pinyin"
	"github.com/rotaworks/roster-engine/backend/internal/domain"
	"golang.org/x/crypto/bcrypt"
)

var westernGivenNames = []string{
	"Alice", "Ben", "Clara", "Daniel", "Elena", "Felix", "Grace", "Henry",
	"Isla", "Jonas", "Katrin", "Liam", "Maya", "Noah", "Olivia", "Pavel",
}
var westernSurnames = []string{
	"Walker", "Schmidt", "Novak", "Fischer", "Hughes", "Lindqvist",
	"Moreau", "Keller", "Brennan", "Sørensen", "Kowalski", "Varga",
}

var chineseSurnames = []string{
	"王", "李", "张", "刘", "陈", "杨", "赵", "黄", "周", "吴",
}
var chineseNameCharacters = []string{
	"伟", "芳", "敏", "静", "杰", "艳", "涛", "明", "磊", "洋",
	"超", "华", "辉", "梅", "鑫", "鹏", "玉", "宁", "乐", "欣",
}

func GenerateRandomWesternName() string {
	given := westernGivenNames[rand.Intn(len(westernGivenNames))]
	surname := westernSurnames[rand.Intn(len(westernSurnames))]
	return given + " " + surname
}

func GenerateRandomChineseName() string {
	surname := chineseSurnames[rand.Intn(len(chineseSurnames))]
	nameLength := rand.Intn(2) + 1
	name := ""

	for i := 0; i < nameLength; i++ {
		name += chineseNameCharacters[rand.Intn(len(chineseNameCharacters))]
	}
	return surname + name
}

var digits = "0123456789"

// GenerateUsernameFromName derives a login name from a full name. Chinese
// names go through pinyin so the username stays ASCII.
func GenerateUsernameFromName(fullName string) string {
	username := ""

	pinyinArray := pinyin.LazyConvert(fullName, nil)
	if len(pinyinArray) > 0 {
		for _, syllable := range pinyinArray {
			username += syllable
		}
	} else {
		username = strings.ToLower(strings.ReplaceAll(fullName, " ", "."))
	}

	digitsLength := rand.Intn(3) + 1
	for i := 0; i < digitsLength; i++ {
		username += string(digits[rand.Intn(len(digits))])
	}

	return username
}

// seedLocation pins a seed user to a country, optionally with a region.
type seedLocation struct {
	CountryCode string
	RegionCode  *string
}

var regionBavaria = "BY"
var regionOntario = "ON"

var seedLocations = []seedLocation{
	{CountryCode: "GB"},
	{CountryCode: "DE", RegionCode: &regionBavaria},
	{CountryCode: "CA", RegionCode: &regionOntario},
	{CountryCode: "CN"},
}

// GenerateRandomUser builds a plausible directory member for seeding. CN
// users get Chinese names, everyone else a western one.
func GenerateRandomUser(password string, emailDomainName string) (*domain.User, error) {
	location := seedLocations[rand.Intn(len(seedLocations))]

	var fullName string
	if location.CountryCode == "CN" {
		fullName = GenerateRandomChineseName()
	} else {
		fullName = GenerateRandomWesternName()
	}
	username := GenerateUsernameFromName(fullName)

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Username:     username,
		PasswordHash: string(passwordHash),
		FullName:     fullName,
		Email:        username + "@" + emailDomainName,
		Role:         domain.RoleEmployee,
		CountryCode:  location.CountryCode,
		RegionCode:   location.RegionCode,
		IsActive:     true,
	}

	return user, nil
}

var letters = []rune("abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789!@#$%^&*")

func GenerateRandomPassword(length int) string {
	password := make([]rune, length)
	for i := range password {
		password[i] = letters[rand.Intn(len(letters))]
	}
	return string(password)
}
