// adtgen turns the sum type declarations of an .adt file into Go code: an interface
// with an is_ marker method, and one type per case implementing it.
//
//	adtgen <in.adt> <out.go> <package>
package main

import (
	"fmt"
	"io/ioutil"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/alecthomas/participle"

	. "github.com/dave/jennifer/jen"
)

type Decls struct {
	Imports []string   `( "import" @String )*`
	Sums    []*SumDecl `@@*`
}

type SumDecl struct {
	Name  string      `"sum" @Ident "{"`
	Cases []*CaseDecl `@@* "}"`
}

// CaseDecl is either a newtype, `Name of Type`, or a record, `Name { Field Type; ... }`.
type CaseDecl struct {
	Name   string       `@Ident`
	Of     *TypeRef     `( "of" @@`
	Fields []*FieldDecl `| "{" ( @@ ";"? )* "}" )`
}

type FieldDecl struct {
	Name string   `@Ident`
	Type *TypeRef `@@`
}

type TypeRef struct {
	Slice   bool   `( @"[" "]" )?`
	Pointer bool   `@"*"?`
	Name    string `@Ident ( @"." @Ident )?`
}

func (t *TypeRef) Code(imports map[string]string) Code {
	var parts []Code
	if t.Slice {
		parts = append(parts, Index())
	}
	if t.Pointer {
		parts = append(parts, Op("*"))
	}

	if pkg, name, ok := splitQualified(t.Name); ok {
		importPath, known := imports[pkg]
		if !known {
			panic(fmt.Sprintf("%s: package %s is not imported", t.Name, pkg))
		}
		parts = append(parts, Qual(importPath, name))
	} else {
		parts = append(parts, Id(t.Name))
	}

	return Add(parts...)
}

func splitQualified(name string) (pkg, ident string, ok bool) {
	i := strings.Index(name, ".")
	if i < 0 {
		return "", name, false
	}
	return name[:i], name[i+1:], true
}

func GenerateDecls(source, pkgname string, t *Decls) string {
	f := NewFile(pkgname)
	f.HeaderComment(fmt.Sprintf("Code generated by adtgen from %s. DO NOT EDIT.", source))

	imports := map[string]string{}
	for _, imp := range t.Imports {
		imports[path.Base(imp)] = imp
		f.ImportName(imp, path.Base(imp))
	}

	for _, sum := range t.Sums {
		f.Type().Id(sum.Name).Interface(
			Id("is_" + sum.Name).Params(),
		)

		for _, it := range sum.Cases {
			if it.Of != nil {
				f.Type().Id(it.Name).Add(it.Of.Code(imports))
			} else {
				var fields []Code
				for _, field := range it.Fields {
					fields = append(fields, Id(field.Name).Add(field.Type.Code(imports)))
				}
				f.Type().Id(it.Name).Struct(fields...)
			}

			f.Func().Params(Id("v").Id(it.Name)).Id("is_" + sum.Name).Params().Block()
		}
	}

	return fmt.Sprintf("%#v", f)
}

var parser = participle.MustBuild(&Decls{})

func main() {
	in := os.Args[1]
	out := os.Args[2]
	pkgname := os.Args[3]

	inData, err := ioutil.ReadFile(in)
	if err != nil {
		panic(err)
	}

	decls := Decls{}
	err = parser.ParseBytes(inData, &decls)
	if err != nil {
		panic(err)
	}

	err = ioutil.WriteFile(out, []byte(GenerateDecls(filepath.Base(in), pkgname, &decls)), 0644)
	if err != nil {
		panic(err)
	}
}
