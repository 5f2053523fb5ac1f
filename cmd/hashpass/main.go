package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// hashpass prints the bcrypt hash to put in ADMIN_PASSWORD_HASH, or with
// -check verifies a password against an existing hash.
func main() {
	check := flag.String("check", "", "existing hash to verify the password against")
	cost := flag.Int("cost", bcrypt.DefaultCost, "bcrypt cost")
	flag.Parse()

	fmt.Fprint(os.Stderr, "password: ")
	plain, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && plain == "" {
		fmt.Fprintln(os.Stderr, "read password:", err)
		os.Exit(1)
	}
	plain = strings.TrimRight(plain, "\r\n")

	if *check != "" {
		if err := bcrypt.CompareHashAndPassword([]byte(*check), []byte(plain)); err != nil {
			fmt.Println("FAIL:", err)
			os.Exit(1)
		}
		fmt.Println("SUCCESS")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(plain), *cost)
	if err != nil {
		fmt.Fprintln(os.Stderr, "hash:", err)
		os.Exit(1)
	}
	fmt.Println(string(hash))
}
