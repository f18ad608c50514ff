// Demonstrates the library surface directly: a Connection, a script run
// with placeholder substitution, and the record accessor.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/oraclient/sqlplus"
)

func main() {
	if len(os.Args) != 2 {
		fmt.Fprintln(os.Stderr, "usage: libraryexample user/password@service")
		os.Exit(1)
	}

	conn, err := sqlplus.Connect(os.Args[1], &sqlplus.Options{RaiseOnError: true})
	if err != nil {
		panic(err)
	}
	defer conn.Close()

	ctx := context.Background()

	script := `
CREATE TABLE users (id NUMBER, name VARCHAR2(30));
INSERT INTO users VALUES (1, '&admin');
INSERT INTO users VALUES (2, 'Guest');
`
	affected, err := conn.ExecuteScript(ctx, script, map[string]string{"admin": "Admin"})
	if err != nil {
		panic(err)
	}
	fmt.Println("last statement affected:", affected)

	if _, err := conn.Execute(ctx, "SELECT id, name FROM users"); err != nil {
		panic(err)
	}
	records, err := conn.Records()
	if err != nil {
		panic(err)
	}
	for _, rec := range records {
		fmt.Printf("%s: %s\n", rec["ID"], rec["NAME"])
	}
}
