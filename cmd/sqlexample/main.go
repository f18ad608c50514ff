// Demonstrates the database/sql surface over the subprocess pipeline.
// Requires a reachable database and the client binary on PATH.
package main

import (
	"database/sql"
	"fmt"
	"os"

	_ "github.com/oraclient/sqlplus"
)

func main() {
	if len(os.Args) != 2 {
		fmt.Fprintln(os.Stderr, "usage: sqlexample user/password@service")
		os.Exit(1)
	}

	db, err := sql.Open("sqlplus", os.Args[1])
	if err != nil {
		panic(err)
	}
	defer db.Close()

	_, err = db.Exec("CREATE TABLE users (name VARCHAR2(30), age NUMBER)")
	if err != nil {
		panic(err)
	}

	res, err := db.Exec("INSERT INTO users VALUES ('Terry', 45)")
	if err != nil {
		panic(err)
	}
	affected, _ := res.RowsAffected()
	fmt.Println("inserted rows:", affected)

	rows, err := db.Query("SELECT name, age FROM users")
	if err != nil {
		panic(err)
	}
	defer rows.Close()

	for rows.Next() {
		var name, age string
		if err := rows.Scan(&name, &age); err != nil {
			panic(err)
		}
		fmt.Printf("%s is %s\n", name, age)
	}
	if err := rows.Err(); err != nil {
		panic(err)
	}
}
